package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/verzia/verzia/internal/services"
)

type PhotoHandler struct {
	photoService   *services.PhotoService
	likeService    *services.LikeService
	commentService *services.CommentService
	maxUploadSize  int64
}

func NewPhotoHandler(photoService *services.PhotoService, likeService *services.LikeService, commentService *services.CommentService, maxUploadSize int64) *PhotoHandler {
	return &PhotoHandler{
		photoService:   photoService,
		likeService:    likeService,
		commentService: commentService,
		maxUploadSize:  maxUploadSize,
	}
}

func (h *PhotoHandler) Upload(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	photo, err := h.photoService.Upload(c.Request.Context(), actorID, data,
		fileHeader.Filename, c.PostForm("title"), c.PostForm("caption"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Photo uploaded successfully",
		"photo":   photo,
	})
}

func (h *PhotoHandler) Get(c *gin.Context) {
	photoID, ok := pathID(c, "id")
	if !ok {
		return
	}

	photo, err := h.photoService.GetByID(c.Request.Context(), photoID)
	if err != nil {
		respondError(c, err)
		return
	}

	likes, err := h.likeService.Count(c.Request.Context(), photoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photo": photo,
		"likes": likes,
	})
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	photoID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.photoService.Delete(c.Request.Context(), actorID, photoID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}

func (h *PhotoHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	offset, limit := pagination(c)

	photos, err := h.photoService.ListByOwner(c.Request.Context(), ownerID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photos": photos,
		"offset": offset,
		"limit":  limit,
	})
}

func (h *PhotoHandler) Feed(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	photos, err := h.photoService.Feed(c.Request.Context(), viewerID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photos": photos,
		"offset": offset,
		"limit":  limit,
	})
}

func (h *PhotoHandler) ToggleLike(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	photoID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, count, err := h.likeService.Toggle(c.Request.Context(), actorID, photoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"likes":  count,
	})
}

func (h *PhotoHandler) CreateComment(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	photoID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), actorID, photoID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

func (h *PhotoHandler) ListComments(c *gin.Context) {
	photoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	offset, limit := pagination(c)

	comments, err := h.commentService.ListByPhoto(c.Request.Context(), photoID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"offset":   offset,
		"limit":    limit,
	})
}

func (h *PhotoHandler) DeleteComment(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), actorID, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
