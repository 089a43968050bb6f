package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"Pulse/auth"
	"Pulse/models"
	"Pulse/security"
	"Pulse/utils/formaterror"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// LoginForm is the target of every redirect-to-login. It does no rendering
// of its own; it hands the next hop back so a frontend can resume the
// original request after POSTing credentials here.
func (server *Server) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"next":   c.Query("next"),
	})
}

func (server *Server) Login(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Unable to get request",
		})
		return
	}

	user := models.User{}
	if err := json.Unmarshal(body, &user); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	user.Prepare()
	errorMessages := user.Validate("login")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, err := server.SignIn(user.Email, user.Password)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

func (server *Server) SignIn(email, password string) (map[string]interface{}, error) {
	user := models.User{}

	err := server.DB.Model(models.User{}).
		Where("lower(email) = ?", strings.ToLower(email)).
		Take(&user).Error
	if err != nil {
		return nil, err
	}

	err = security.VerifyPassword(user.Password, password)
	if err != nil && errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, err
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	userData := map[string]interface{}{
		"token":    token,
		"id":       user.PublicID,
		"email":    user.Email,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	}
	return userData, nil
}
