package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/halcyonchat/halcyon-backend/internal/httpx"
	"github.com/halcyonchat/halcyon-backend/internal/service"
	"github.com/halcyonchat/halcyon-backend/internal/storage"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5MB

var allowedAvatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AvatarHandler uploads and serves user avatars from object storage. The
// storage backend is optional; without it these endpoints answer 503.
type AvatarHandler struct {
	userService *service.UserService
	store       *storage.AvatarStorage
}

func NewAvatarHandler(userService *service.UserService, store *storage.AvatarStorage) *AvatarHandler {
	return &AvatarHandler{
		userService: userService,
		store:       store,
	}
}

func (h *AvatarHandler) UploadMyAvatar(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "Unauthorized")
	}
	if h.store == nil {
		return httpx.Unavailable(c, "Avatar storage is not configured")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return httpx.BadRequest(c, "avatar file is required")
	}
	if fileHeader.Size > maxAvatarSize {
		return httpx.BadRequest(c, "Avatar exceeds the 5MB limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return httpx.BadRequest(c, "Avatar must be PNG, JPEG or WebP")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httpx.Internal(c)
	}
	defer file.Close()

	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
	if err := h.store.Put(c.Context(), key, file, fileHeader.Size, contentType); err != nil {
		log.Printf("avatar upload for user %s failed: %v", userID, err)
		return httpx.Internal(c)
	}

	avatarPath := "/media/" + key
	if err := h.userService.UpdateAvatar(userID, avatarPath); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return httpx.NotFound(c, "User not found")
		}
		return httpx.Internal(c)
	}

	return httpx.OK(c, fiber.Map{"avatar": avatarPath})
}

func (h *AvatarHandler) GetAvatar(c *fiber.Ctx) error {
	if h.store == nil {
		return httpx.Unavailable(c, "Avatar storage is not configured")
	}

	key, err := storage.SafeAvatarKey(c.Params("*"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid avatar path")
	}

	obj, contentType, err := h.store.Get(c.Context(), key)
	if err != nil {
		return httpx.NotFound(c, "Avatar not found")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return httpx.Internal(c)
	}

	if contentType == "" {
		contentType = mimeFromExt(key)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

func mimeFromExt(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
