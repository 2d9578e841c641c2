package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/biblioteca-dev/book-asset-service/http/controller/dto"
	"github.com/biblioteca-dev/book-asset-service/provider"
	"github.com/biblioteca-dev/book-asset-service/utils"
)

func (ctrl *Controller) CreateBook(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBookRequestDTO
	if err := c.ShouldBind(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Book] Failed to bind form: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Book] Invalid categoryId format: %v", err)
		utils.JSON400(c, "Invalid categoryId format")
		return
	}

	document, err := readFormAsset(c, "file")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Book] Failed to read document part: %v", err)
		utils.JSON400(c, "Unreadable document file")
		return
	}

	cover, err := readFormAsset(c, "cover")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Book] Failed to read cover part: %v", err)
		utils.JSON400(c, "Unreadable cover file")
		return
	}

	in := provider.CreateBookInput{
		Title:          req.Title,
		Author:         req.Author,
		CategoryID:     categoryID,
		IsDownloadable: req.IsDownloadable,
	}
	if req.Description != "" {
		in.Description = &req.Description
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Book] Creating book '%s' by '%s' in category %s", req.Title, req.Author, categoryID)

	result, err := ctrl.Books.CreateBook(ctx, in, cover, document)
	if err != nil {
		ctrl.writeBookError(c, err, "[Book] Failed to create book")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Book] Successfully created book: %s", result.Book.ID)
	utils.JSON201(c, dto.NewBookResponse(*result))
}

func (ctrl *Controller) ListBooks(c *gin.Context) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	query := provider.ListQuery{
		Page:         page,
		Limit:        limit,
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
	}

	result, err := ctrl.Books.ListBooks(ctx, query)
	if err != nil {
		ctrl.writeBookError(c, err, "[Book] Failed to list books")
		return
	}

	data := make([]dto.BookResponseDTO, 0, len(result.Data))
	for _, item := range result.Data {
		data = append(data, dto.NewBookResponse(item))
	}

	utils.JSON200(c, dto.BookListResponseDTO{
		Data: data,
		Meta: result.Meta,
	})
}

func (ctrl *Controller) GetBookByID(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid book id format")
		return
	}

	result, err := ctrl.Books.GetBook(ctx, id)
	if err != nil {
		ctrl.writeBookError(c, err, "[Book] Failed to get book")
		return
	}

	utils.JSON200(c, dto.NewBookResponse(*result))
}

func (ctrl *Controller) DeleteBookByID(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid book id format")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Book] Removing book: %s", id)

	if err := ctrl.Books.RemoveBook(ctx, id); err != nil {
		ctrl.writeBookError(c, err, "[Book] Failed to remove book")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Book] Successfully removed book: %s", id)
	utils.JSON200(c, gin.H{"message": "Book removed successfully"})
}

func (ctrl *Controller) ReadBook(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid book id format")
		return
	}

	signed, err := ctrl.Books.ReadBook(ctx, id)
	if err != nil {
		ctrl.writeBookError(c, err, "[Book] Failed to issue read access")
		return
	}

	utils.JSON200(c, dto.ReadAccessResponseDTO{
		URL:       signed.URL,
		ExpiresAt: signed.ExpiresAt,
	})
}

func (ctrl *Controller) writeBookError(c *gin.Context, err error, prefix string) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, provider.ErrNotFound):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "%s: %v", prefix, err)
		utils.JSON404(c, err.Error())
	case errors.Is(err, provider.ErrValidation):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "%s: %v", prefix, err)
		utils.JSON400(c, err.Error())
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "%s: %v", prefix, err)
		utils.JSON500(c, "Internal server error")
	}
}

// readFormAsset loads one multipart file part fully into memory. A missing
// "cover" part is not an error; a missing "file" part is rejected later by
// the pipeline as a validation failure.
func readFormAsset(c *gin.Context, field string) (*provider.AssetUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &provider.AssetUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
