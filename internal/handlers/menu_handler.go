package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"canteen/internal/models"
	"canteen/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for the menu catalog, including image
// uploads for menu items.
type MenuHandler struct {
	service   *services.MenuService
	validate  *validator.Validate
	uploadDir string
}

// NewMenuHandler creates a new MenuHandler. uploadDir is where item images
// are stored; the directory is served statically at /uploads.
func NewMenuHandler(service *services.MenuService, uploadDir string) *MenuHandler {
	return &MenuHandler{
		service:   service,
		validate:  validator.New(),
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers the menu routes with the Fiber app.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/", h.HandleGetMenu)
	menuRoutes.Get("/:id", h.HandleGetItemByID)
	menuRoutes.Post("/", h.HandleCreateItem)
	menuRoutes.Put("/:id", h.HandleUpdateItem)
	menuRoutes.Delete("/:id", h.HandleDeleteItem)
}

// HandleGetMenu lists menu items; ?available=true filters to orderable ones.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	onlyAvailable := c.Query("available") == "true"
	items, err := h.service.GetMenu(onlyAvailable)
	if err != nil {
		log.Printf("Error getting menu: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleGetItemByID retrieves a single menu item.
func (h *MenuHandler) HandleGetItemByID(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetItemByID(itemID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Menu item with ID %s not found", itemID),
			})
		}
		log.Printf("Error getting menu item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleCreateItem creates a menu item from a multipart form so an image
// can be attached in the same request.
func (h *MenuHandler) HandleCreateItem(c *fiber.Ctx) error {
	name := c.FormValue("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Name is required",
		})
	}
	priceStr := c.FormValue("price")
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid price %q", priceStr),
		})
	}

	item := models.MenuItem{
		Name:        name,
		Description: c.FormValue("description"),
		Price:       price,
		IsAvailable: true,
	}
	if err := h.validate.Struct(item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if file, err := c.FormFile("image"); err == nil {
		imagePath, saveErr := h.saveImage(c, file)
		if saveErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Image upload failed",
				"error":   saveErr.Error(),
			})
		}
		item.ImagePath = imagePath
	}

	if err := h.service.CreateItem(&item); err != nil {
		log.Printf("Error creating menu item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create menu item",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem partially updates a menu item; only the fields present
// in the form are changed.
func (h *MenuHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetItemByID(itemID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Menu item with ID %s not found", itemID),
		})
	}

	if name := c.FormValue("name"); name != "" {
		item.Name = name
	}
	if description := c.FormValue("description"); description != "" {
		item.Description = description
	}
	if priceStr := c.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid price %q", priceStr),
			})
		}
		item.Price = price
	}
	if availStr := c.FormValue("is_available"); availStr != "" {
		switch strings.ToLower(availStr) {
		case "true", "1", "t", "yes":
			item.IsAvailable = true
		default:
			item.IsAvailable = false
		}
	}
	if file, err := c.FormFile("image"); err == nil {
		imagePath, saveErr := h.saveImage(c, file)
		if saveErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Image upload failed",
				"error":   saveErr.Error(),
			})
		}
		item.ImagePath = imagePath
	}

	if err := h.service.UpdateItem(item); err != nil {
		log.Printf("Error updating menu item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleDeleteItem deletes a menu item and its image file. Image file
// removal is best-effort; a missing file is only logged.
func (h *MenuHandler) HandleDeleteItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetItemByID(itemID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Menu item with ID %s not found", itemID),
		})
	}

	if err := h.service.DeleteItem(itemID); err != nil {
		log.Printf("Error deleting menu item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete menu item",
			"error":   err.Error(),
		})
	}

	if item.ImagePath != "" {
		if err := os.Remove(filepath.Join(h.uploadDir, item.ImagePath)); err != nil {
			log.Printf("Error deleting image file %s: %v", item.ImagePath, err)
		}
	}
	return c.JSON(fiber.Map{
		"message": "Menu item deleted successfully",
	})
}

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// saveImage stores an uploaded image under the upload directory with a
// timestamp-prefixed, path-stripped filename and returns the stored name.
func (h *MenuHandler) saveImage(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("invalid image file type %q", ext)
	}
	base := strings.ReplaceAll(filepath.Base(file.Filename), " ", "_")
	filename := fmt.Sprintf("%s_%s", time.Now().Format("20060102150405"), base)
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return filename, nil
}
