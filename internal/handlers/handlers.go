package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-api/internal/services"
)

type LibraryHandler struct {
	svc services.LibraryService
}

func RegisterRoutes(r *gin.Engine, svc services.LibraryService) {
	h := &LibraryHandler{svc: svc}

	// Book endpoints
	r.GET("/books", h.listBooks)
	r.POST("/books", h.createBook)
	r.GET("/books/:id", h.getBook)

	// Admin endpoints
	r.GET("/admin/books/:id", h.getBookDetails)

	// User endpoints
	r.POST("/users", h.createUser)
	r.POST("/users/login", h.login)
	r.GET("/users/:id", h.getUser)
	r.PUT("/users/:id", h.updateUser)
	r.DELETE("/users/:id", h.deleteUser)

	// Loan endpoints
	r.POST("/users/:id/books/:book_id", h.createLoan)
}

// pathID parses a numeric path segment. Anything else is reported as not
// found, the way a typed route would reject it.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": defaultErrorMessage})
		return 0, false
	}
	return uint(id), true
}

var statusOK = gin.H{"status": "ok"}

// ─── Books ────────────────────────────────────────────────────────────────────

func (h *LibraryHandler) getBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	book, err := h.svc.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *LibraryHandler) getBookDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	book, err := h.svc.GetBookDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

type listBooksQuery struct {
	N string `form:"n" binding:"required"`
}

func (h *LibraryHandler) listBooks(c *gin.Context) {
	var q listBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	n, err := strconv.Atoi(q.N)
	if err != nil {
		badRequest(c)
		return
	}

	books, err := h.svc.ListRandomBooks(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

type createBookRequest struct {
	Title          string `form:"title" json:"title" binding:"required"`
	AuthorID       uint   `form:"author_id" json:"author_id" binding:"required"`
	PublisherID    uint   `form:"publisher_id" json:"publisher_id" binding:"required"`
	PublishingYear int    `form:"publishing_year" json:"publishing_year" binding:"required"`
}

func (h *LibraryHandler) createBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	id, err := h.svc.CreateBook(c.Request.Context(), services.NewBook{
		Title:          req.Title,
		AuthorID:       req.AuthorID,
		PublisherID:    req.PublisherID,
		PublishingYear: req.PublishingYear,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book_id": id})
}

// ─── Users ────────────────────────────────────────────────────────────────────

func (h *LibraryHandler) getUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	Email       string `form:"email" json:"email" binding:"required"`
	Password    string `form:"password" json:"password" binding:"required"`
	FirstName   string `form:"first_name" json:"first_name" binding:"required"`
	LastName    string `form:"last_name" json:"last_name" binding:"required"`
	Address     string `form:"address" json:"address" binding:"required"`
	PhoneNumber string `form:"phone_number" json:"phone_number" binding:"required"`
	BirthDate   string `form:"birth_date" json:"birth_date" binding:"required"`
}

func (h *LibraryHandler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	id, err := h.svc.CreateUser(c.Request.Context(), services.NewUser{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		BirthDate:   req.BirthDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": id})
}

type updateUserRequest struct {
	Email       *string `form:"email" json:"email"`
	FirstName   *string `form:"first_name" json:"first_name"`
	LastName    *string `form:"last_name" json:"last_name"`
	Address     *string `form:"address" json:"address"`
	PhoneNumber *string `form:"phone_number" json:"phone_number"`
	BirthDate   *string `form:"birth_date" json:"birth_date"`
}

func (h *LibraryHandler) updateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	err := h.svc.UpdateUser(c.Request.Context(), id, services.UserUpdate{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		BirthDate:   req.BirthDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

func (h *LibraryHandler) deleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

type loginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *LibraryHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	id, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id})
}

// ─── Loans ────────────────────────────────────────────────────────────────────

func (h *LibraryHandler) createLoan(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}

	if err := h.svc.CreateLoan(c.Request.Context(), userID, bookID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}
