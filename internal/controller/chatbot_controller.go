// FILE: internal/controller/chatbot_controller.go
package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/serverutils"
	"persona-chat-be/internal/service"
	"persona-chat-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearMemory(ctx *fiber.Ctx) error
	AppendDocument(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
	chatService    service.IChatService
	uploadDir      string
}

func NewChatbotController(chatbotService service.IChatbotService, chatService service.IChatService, uploadDir string) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
		chatService:    chatService,
		uploadDir:      uploadDir,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbots", serverutils.JwtMiddleware)
	h.Post("/", c.Create)
	h.Get("/", c.GetAll)
	h.Post("/chat", c.SendChat)
	h.Get("/:name/history", c.GetHistory)
	h.Delete("/:name/memory", c.ClearMemory)
	h.Post("/:name/documents", c.AppendDocument)
}

// Create expects a multipart form: name, description, persona_prompt and
// the initial knowledge document under "file".
func (c *chatbotController) Create(ctx *fiber.Ctx) error {
	req := dto.CreateChatbotRequest{
		Name:          ctx.FormValue("name"),
		Description:   ctx.FormValue("description"),
		PersonaPrompt: ctx.FormValue("persona_prompt"),
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return badRequest(ctx, err)
	}

	savedPath, originalName, err := c.saveUpload(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	username := ctx.Locals("username").(string)
	res, err := c.chatbotService.Create(ctx.Context(), username, &req, savedPath, originalName)
	if err != nil {
		return chatbotError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Chatbot created successfully",
		"data":    res,
	})
}

func (c *chatbotController) GetAll(ctx *fiber.Ctx) error {
	username := ctx.Locals("username").(string)

	res, err := c.chatbotService.GetAll(ctx.Context(), username)
	if err != nil {
		return chatbotError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chatbots retrieved",
		"data":    res,
	})
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return badRequest(ctx, err)
	}

	username := ctx.Locals("username").(string)
	res, err := c.chatService.SendChat(ctx.Context(), username, &req)
	if err != nil {
		return chatbotError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat processed",
		"data":    res,
	})
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	username := ctx.Locals("username").(string)

	res, err := c.chatService.GetHistory(ctx.Context(), username, ctx.Params("name"))
	if err != nil {
		return chatbotError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "History retrieved",
		"data":    res,
	})
}

func (c *chatbotController) ClearMemory(ctx *fiber.Ctx) error {
	username := ctx.Locals("username").(string)

	if err := c.chatService.ClearMemory(ctx.Context(), username, ctx.Params("name")); err != nil {
		return chatbotError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Conversation memory cleared",
		"data":    nil,
	})
}

func (c *chatbotController) AppendDocument(ctx *fiber.Ctx) error {
	savedPath, originalName, err := c.saveUpload(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	username := ctx.Locals("username").(string)
	res, err := c.chatbotService.AppendDocument(ctx.Context(), username, ctx.Params("name"), savedPath, originalName)
	if err != nil {
		return chatbotError(ctx, err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"code":    202,
		"message": "Document queued for indexing",
		"data":    res,
	})
}

// saveUpload stores the "file" form part under a collision-free name and
// returns the stored path plus the original filename.
func (c *chatbotController) saveUpload(ctx *fiber.Ctx) (string, string, error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return "", "", errors.New("document file is required")
	}

	if fileHeader.Size > constant.MaxDocumentSizeBytes {
		return "", "", fmt.Errorf("%w: %d bytes (max %d)", service.ErrDocumentTooLarge, fileHeader.Size, constant.MaxDocumentSizeBytes)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	supported := false
	for _, allowed := range constant.SupportedDocumentExtensions {
		if ext == allowed {
			supported = true
			break
		}
	}
	if !supported {
		return "", "", fmt.Errorf("%w: %q (allowed: %s)", service.ErrUnsupportedFile, ext, strings.Join(constant.SupportedDocumentExtensions, ", "))
	}

	savedPath := filepath.Join(c.uploadDir, fmt.Sprintf("%s%s", uuid.New(), ext))
	if err := ctx.SaveFile(fileHeader, savedPath); err != nil {
		return "", "", fmt.Errorf("failed to store upload: %w", err)
	}

	return savedPath, fileHeader.Filename, nil
}

func badRequest(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    400,
		"message": err.Error(),
	})
}

// chatbotError maps service failures onto stable HTTP statuses.
func chatbotError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrChatbotNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, rag.ErrIndexNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrChatbotExists):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrUnsupportedFile), errors.Is(err, service.ErrDocumentTooLarge):
		status = fiber.StatusBadRequest
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"message": err.Error(),
	})
}
