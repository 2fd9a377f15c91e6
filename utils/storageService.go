package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// UploadResponse is the payload returned by the object-storage provider
type UploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Message   string `json:"message"`
}

// UploadMedia pushes a module media file to the configured object-storage
// provider and returns its public URL. When no provider is configured the
// file is saved under ./public/uploads instead so local setups keep working.
func UploadMedia(file *multipart.FileHeader) (string, error) {
	if config.AppConfig.StorageUploadURL == "" {
		return saveLocal(file, "./public/uploads")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	client := resty.New().SetTimeout(60 * time.Second)

	var result UploadResponse
	resp, err := client.R().
		SetFileReader("file", file.Filename, src).
		SetFormData(map[string]string{
			"api_key": config.AppConfig.StorageAPIKey,
		}).
		SetResult(&result).
		Post(config.AppConfig.StorageUploadURL)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %v", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("storage provider error: %s", resp.Status())
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage provider returned no URL")
	}

	return result.SecureURL, nil
}

func saveLocal(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := time.Now().Format("20060102150405") + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + newFilename, nil
}
