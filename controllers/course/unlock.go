package controllers

import (
	"sort"
	"time"

	courseModels "lms/models/course"
)

// FileState is the computed per-user state of one module file
type FileState struct {
	Status      string
	IsActive    bool
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// ModuleState is the computed per-user state of one module. For modules that
// own files the status is derived from the files, otherwise it comes from
// the module's own progress row.
type ModuleState struct {
	Status      string
	IsActive    bool
	StartedAt   *time.Time
	CompletedAt *time.Time
	Files       map[uint]FileState
}

// computeCourseState folds the ordered module list into a per-module state
// map. A module is unlocked iff every module with a smaller order index is
// completed; files gate the same way inside their module. The fold is pure:
// it only reads the rows it is given.
func computeCourseState(modules []courseModels.CourseModule, moduleRows map[uint]courseModels.ModuleProgress, fileRows map[uint]courseModels.ModuleFileProgress) map[uint]ModuleState {
	ordered := make([]courseModels.CourseModule, len(modules))
	copy(ordered, modules)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].OrderIndex < ordered[j].OrderIndex })

	states := make(map[uint]ModuleState, len(ordered))

	unlocked := true
	for _, module := range ordered {
		state := ModuleState{IsActive: unlocked}

		if row, ok := moduleRows[module.ID]; ok {
			state.StartedAt = row.StartedAt
			state.CompletedAt = row.CompletedAt
		}

		if len(module.Files) > 0 {
			state.Files = make(map[uint]FileState, len(module.Files))

			files := make([]courseModels.ModuleFile, len(module.Files))
			copy(files, module.Files)
			sort.Slice(files, func(i, j int) bool { return files[i].OrderIndex < files[j].OrderIndex })

			allCompleted := true
			anyTouched := false
			fileUnlocked := unlocked
			for _, file := range files {
				fs := FileState{Status: courseModels.StatusNotStarted, IsActive: fileUnlocked}
				if row, ok := fileRows[file.ID]; ok {
					fs.Status = row.Status
					fs.StartedAt = row.StartedAt
					fs.CompletedAt = row.CompletedAt
				}
				if fs.Status != courseModels.StatusNotStarted {
					anyTouched = true
				}
				if fs.Status != courseModels.StatusCompleted {
					allCompleted = false
					fileUnlocked = false
				}
				state.Files[file.ID] = fs
			}

			switch {
			case allCompleted:
				state.Status = courseModels.StatusCompleted
			case anyTouched:
				state.Status = courseModels.StatusInProgress
			default:
				state.Status = courseModels.StatusNotStarted
			}

			// Derived timestamps when the module has no row of its own
			if state.StartedAt == nil {
				state.StartedAt = earliestFileStart(files, fileRows)
			}
			if state.Status == courseModels.StatusCompleted && state.CompletedAt == nil {
				state.CompletedAt = latestFileCompletion(files, fileRows)
			}
		} else {
			state.Status = courseModels.StatusNotStarted
			if row, ok := moduleRows[module.ID]; ok {
				state.Status = row.Status
			}
		}

		if state.Status != courseModels.StatusCompleted {
			unlocked = false
		}
		states[module.ID] = state
	}

	return states
}

func earliestFileStart(files []courseModels.ModuleFile, fileRows map[uint]courseModels.ModuleFileProgress) *time.Time {
	var earliest *time.Time
	for _, file := range files {
		row, ok := fileRows[file.ID]
		if !ok || row.StartedAt == nil {
			continue
		}
		if earliest == nil || row.StartedAt.Before(*earliest) {
			earliest = row.StartedAt
		}
	}
	return earliest
}

func latestFileCompletion(files []courseModels.ModuleFile, fileRows map[uint]courseModels.ModuleFileProgress) *time.Time {
	var latest *time.Time
	for _, file := range files {
		row, ok := fileRows[file.ID]
		if !ok || row.CompletedAt == nil {
			continue
		}
		if latest == nil || row.CompletedAt.After(*latest) {
			latest = row.CompletedAt
		}
	}
	return latest
}
