package main

import (
	"encoding/csv"
	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
	"log"
	"os"
	"strconv"
	"strings"
)

// Imports a curriculum from Curriculum.csv. Each row describes one module
// file; the module columns repeat on every row of that module. Modules are
// upserted by order index, files by (module order, file order), so the
// import can be re-run after editing the sheet.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("Curriculum.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	moduleInserted := 0
	moduleUpdated := 0
	fileInserted := 0
	fileUpdated := 0
	skipped := 0

	moduleIDs := make(map[int]uint)

	for _, row := range records[1:] {
		moduleOrder := parseInt(getField(row, headerIndex, "moduleOrder"))
		moduleTitle := getField(row, headerIndex, "moduleTitle")

		if moduleOrder == 0 || moduleTitle == "" {
			skipped++
			continue
		}

		moduleID, seen := moduleIDs[moduleOrder]
		if !seen {
			module := courseModels.CourseModule{
				Title:        moduleTitle,
				Description:  getField(row, headerIndex, "moduleDescription"),
				OrderIndex:   moduleOrder,
				DeadlineDays: parseInt(getField(row, headerIndex, "deadlineDays")),
				MediaType:    getField(row, headerIndex, "mediaType"),
				MediaURL:     getField(row, headerIndex, "mediaUrl"),
			}
			if module.MediaType == "" {
				module.MediaType = "VIDEO"
			}

			var existing courseModels.CourseModule
			result := database.Database.Db.Where("order_index = ?", moduleOrder).First(&existing)

			if result.Error != nil {
				if err := database.Database.Db.Create(&module).Error; err != nil {
					log.Printf("Error inserting module %q (order=%d): %v", module.Title, moduleOrder, err)
					skipped++
					continue
				}
				moduleInserted++
				moduleID = module.ID
			} else {
				existing.Title = module.Title
				existing.Description = module.Description
				existing.DeadlineDays = module.DeadlineDays
				existing.MediaType = module.MediaType
				existing.MediaURL = module.MediaURL

				if err := database.Database.Db.Save(&existing).Error; err != nil {
					log.Printf("Error updating module %q (order=%d): %v", module.Title, moduleOrder, err)
					skipped++
					continue
				}
				moduleUpdated++
				moduleID = existing.ID
			}
			moduleIDs[moduleOrder] = moduleID
		}

		// Rows without file columns only carry the module definition
		fileOrder := parseInt(getField(row, headerIndex, "fileOrder"))
		fileURL := getField(row, headerIndex, "fileUrl")
		if fileOrder == 0 || fileURL == "" {
			continue
		}

		moduleFile := courseModels.ModuleFile{
			ModuleID:   moduleID,
			OrderIndex: fileOrder,
			Title:      getField(row, headerIndex, "fileTitle"),
			MediaType:  getField(row, headerIndex, "fileMediaType"),
			MediaURL:   fileURL,
		}
		if moduleFile.MediaType == "" {
			moduleFile.MediaType = "VIDEO"
		}

		var existingFile courseModels.ModuleFile
		result := database.Database.Db.Where("module_id = ? AND order_index = ?", moduleID, fileOrder).First(&existingFile)

		if result.Error != nil {
			if err := database.Database.Db.Create(&moduleFile).Error; err != nil {
				log.Printf("Error inserting file %q (module=%d, order=%d): %v", moduleFile.Title, moduleOrder, fileOrder, err)
				continue
			}
			fileInserted++
		} else {
			existingFile.Title = moduleFile.Title
			existingFile.MediaType = moduleFile.MediaType
			existingFile.MediaURL = moduleFile.MediaURL

			if err := database.Database.Db.Save(&existingFile).Error; err != nil {
				log.Printf("Error updating file %q (module=%d, order=%d): %v", moduleFile.Title, moduleOrder, fileOrder, err)
				continue
			}
			fileUpdated++
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Modules inserted: %d", moduleInserted)
	log.Printf("Modules updated: %d", moduleUpdated)
	log.Printf("Files inserted: %d", fileInserted)
	log.Printf("Files updated: %d", fileUpdated)
	log.Printf("Skipped: %d", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt converts string to int
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}
