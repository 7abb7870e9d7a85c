package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/storage"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.uber.org/zap"
)

const uploadField = "product"

type UploadHandler struct {
	storage storage.Storage
	logger  *zap.Logger
	now     func() time.Time
}

func NewUploadHandler(storage storage.Storage, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		mylogger.Warn(ctx, h.logger, "upload without file", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": 0,
			"message": "No file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer file.Close()

	name := storage.FileName(uploadField, fileHeader.Filename, h.now())

	url, err := h.storage.Save(ctx, name, fileHeader.Header.Get(fiber.HeaderContentType), file)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	mylogger.Info(ctx, h.logger, "file uploaded", zap.String("name", name), zap.Int64("size", fileHeader.Size))

	return ok(c, fiber.StatusOK, fiber.Map{"image_url": url})
}
