package controllers

import (
	"testing"
	"time"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func module(id uint, order int, files ...courseModels.ModuleFile) courseModels.CourseModule {
	return courseModels.CourseModule{
		Model:      gorm.Model{ID: id},
		Title:      "Module",
		OrderIndex: order,
		Files:      files,
	}
}

func file(id uint, moduleID uint, order int) courseModels.ModuleFile {
	return courseModels.ModuleFile{
		Model:      gorm.Model{ID: id},
		ModuleID:   moduleID,
		OrderIndex: order,
	}
}

func completedModuleRow(moduleID uint) courseModels.ModuleProgress {
	now := time.Now()
	return courseModels.ModuleProgress{
		ModuleID:    moduleID,
		Status:      courseModels.StatusCompleted,
		StartedAt:   &now,
		CompletedAt: &now,
	}
}

func TestFirstModuleAlwaysUnlocked(t *testing.T) {
	modules := []courseModels.CourseModule{module(1, 1), module(2, 2)}

	states := computeCourseState(modules, nil, nil)

	assert.True(t, states[1].IsActive)
	assert.False(t, states[2].IsActive)
	assert.Equal(t, courseModels.StatusNotStarted, states[1].Status)
}

func TestSequentialGateAcrossModules(t *testing.T) {
	modules := []courseModels.CourseModule{module(1, 1), module(2, 2), module(3, 3)}
	moduleRows := map[uint]courseModels.ModuleProgress{
		1: completedModuleRow(1),
	}

	states := computeCourseState(modules, moduleRows, nil)

	assert.True(t, states[1].IsActive)
	assert.True(t, states[2].IsActive, "module after a completed one unlocks")
	assert.False(t, states[3].IsActive, "module two steps ahead stays locked")
}

func TestInProgressModuleBlocksSuccessors(t *testing.T) {
	modules := []courseModels.CourseModule{module(1, 1), module(2, 2)}
	now := time.Now()
	moduleRows := map[uint]courseModels.ModuleProgress{
		1: {ModuleID: 1, Status: courseModels.StatusInProgress, StartedAt: &now},
	}

	states := computeCourseState(modules, moduleRows, nil)

	assert.Equal(t, courseModels.StatusInProgress, states[1].Status)
	assert.False(t, states[2].IsActive)
}

func TestFileGatingWithinModule(t *testing.T) {
	m := module(1, 1, file(10, 1, 1), file(11, 1, 2), file(12, 1, 3))
	now := time.Now()
	fileRows := map[uint]courseModels.ModuleFileProgress{
		10: {ModuleFileID: 10, Status: courseModels.StatusCompleted, StartedAt: &now, CompletedAt: &now},
	}

	states := computeCourseState([]courseModels.CourseModule{m}, nil, fileRows)

	state := states[1]
	require.Len(t, state.Files, 3)
	assert.True(t, state.Files[10].IsActive)
	assert.True(t, state.Files[11].IsActive, "file after a completed one unlocks")
	assert.False(t, state.Files[12].IsActive)
	assert.Equal(t, courseModels.StatusInProgress, state.Status)
}

func TestDerivedStatusFromFiles(t *testing.T) {
	m := module(1, 1, file(10, 1, 1), file(11, 1, 2))
	now := time.Now()
	later := now.Add(time.Hour)
	fileRows := map[uint]courseModels.ModuleFileProgress{
		10: {ModuleFileID: 10, Status: courseModels.StatusCompleted, StartedAt: &now, CompletedAt: &now},
		11: {ModuleFileID: 11, Status: courseModels.StatusCompleted, StartedAt: &now, CompletedAt: &later},
	}

	states := computeCourseState([]courseModels.CourseModule{m, module(2, 2)}, nil, fileRows)

	assert.Equal(t, courseModels.StatusCompleted, states[1].Status)
	require.NotNil(t, states[1].CompletedAt)
	assert.True(t, states[1].CompletedAt.Equal(later), "completion time is the last file's")
	assert.True(t, states[2].IsActive, "completing all files unlocks the next module")
}

func TestFilesLockedInsideLockedModule(t *testing.T) {
	m1 := module(1, 1)
	m2 := module(2, 2, file(20, 2, 1))

	states := computeCourseState([]courseModels.CourseModule{m1, m2}, nil, nil)

	assert.False(t, states[2].IsActive)
	assert.False(t, states[2].Files[20].IsActive, "files inherit the module lock")
}

func TestModuleWithoutFilesUsesOwnRow(t *testing.T) {
	modules := []courseModels.CourseModule{module(1, 1)}
	moduleRows := map[uint]courseModels.ModuleProgress{1: completedModuleRow(1)}

	states := computeCourseState(modules, moduleRows, nil)

	assert.Equal(t, courseModels.StatusCompleted, states[1].Status)
}

func TestUnsortedInputIsWalkedByOrder(t *testing.T) {
	// Input order deliberately shuffled; the fold must sort by OrderIndex
	modules := []courseModels.CourseModule{module(3, 3), module(1, 1), module(2, 2)}
	moduleRows := map[uint]courseModels.ModuleProgress{
		1: completedModuleRow(1),
		2: completedModuleRow(2),
	}

	states := computeCourseState(modules, moduleRows, nil)

	assert.True(t, states[3].IsActive)
}
