package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-api/internal/logging"
	"library-api/internal/services"
)

const (
	defaultErrorMessage  = "Incorrect parameters"
	internalErrorMessage = "Internal server error"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings is matched in order with errors.Is.
var errorMappings = []errorMapping{
	{services.ErrInvalidInput, http.StatusBadRequest, defaultErrorMessage},
	{services.ErrInvalidPublishingYear, http.StatusBadRequest, defaultErrorMessage},
	{services.ErrBookNotFound, http.StatusNotFound, "Book not found"},
	{services.ErrAuthorNotFound, http.StatusNotFound, "The author does not exist"},
	{services.ErrPublisherNotFound, http.StatusNotFound, "The publishing company does not exist"},
	{services.ErrBookNotInserted, http.StatusInternalServerError, "There was an error when trying to insert the book"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrInvalidPasswordFormat, http.StatusBadRequest, "Incorrect password format"},
	{services.ErrUserAlreadyExists, http.StatusBadRequest, "The user already exists"},
	{services.ErrUserNotInserted, http.StatusInternalServerError, "The user could not be created"},
	{services.ErrUserNotUpdated, http.StatusInternalServerError, "The user could not be updated"},
	{services.ErrUserNotDeleted, http.StatusInternalServerError, "The user could not be deleted"},
	{services.ErrWrongCredentials, http.StatusUnauthorized, "Wrong credentials"},
	{services.ErrBookOnLoan, http.StatusBadRequest, "This user has still this book on loan"},
	{services.ErrLoanNotInserted, http.StatusInternalServerError, "The loan could not be created"},
}

// respondError writes the status and message for a service error. Errors
// without a mapping are logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": m.message})
			return
		}
	}

	logging.FromContext(c.Request.Context()).Error("request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": defaultErrorMessage})
}
