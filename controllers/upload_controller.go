package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/utils"
)

// imageCacheControl lets clients keep product images for a day; uploads never
// overwrite an existing name, so a cached copy cannot go stale
const imageCacheControl = "public, max-age=86400"

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves product images
// kept on local disk when no S3 bucket is configured
func GetUploadedImage(c *gin.Context) {
	path, status, uploadErr := localImagePath(c.Param("filename"))
	if uploadErr != nil {
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	c.Header("Content-Type", utils.ImageContentType)
	c.Header("Cache-Control", imageCacheControl)
	c.File(path)
}

// localImagePath resolves filename inside the upload directory
func localImagePath(filename string) (string, int, *utils.FileUploadError) {
	if !utils.IsSafeFilename(filename) {
		return "", http.StatusBadRequest, &utils.FileUploadError{Code: "INVALID_FILENAME", Message: "Invalid filename"}
	}
	if strings.ToLower(filepath.Ext(filename)) != utils.AllowedImageFormat {
		return "", http.StatusBadRequest, &utils.FileUploadError{Code: "INVALID_FILE_TYPE", Message: "Only PNG files are supported"}
	}

	path := filepath.Join(utils.UploadDir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", http.StatusNotFound, &utils.FileUploadError{Code: "FILE_NOT_FOUND", Message: "Image not found"}
	}
	return path, http.StatusOK, nil
}
