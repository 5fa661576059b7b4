package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"

	"mgma_back_end/internal/database"

	"github.com/minio/minio-go/v7"
)

// UploadProductImage pousse une image produit dans MinIO et retourne son URL publique
func UploadProductImage(file *multipart.FileHeader, objectName string) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")

	_, err = database.MinIO.PutObject(context.Background(), bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}
