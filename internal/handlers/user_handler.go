package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"slices"
	"time"

	"github.com/glocomx/auth-service/internal/auth/middleware"
	"github.com/glocomx/auth-service/internal/models"
	"github.com/glocomx/auth-service/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for credential verification.
type AuthService interface {
	// Method Login verifies user credentials and issues a signed access token.
	//
	// "req" parameter contains email and password.
	//
	// Unknown email and wrong password both return services.ErrInvalidCredentials, so callers cannot tell them apart.
	// Any other error means the login could not be processed and is returned together with "nil" value.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// RegistrationService is the interface that wraps methods for user registration.
type RegistrationService interface {
	// Method Register validates the request, stores the optional profile picture, provisions the role and creates the user.
	//
	// "upload" parameter is nil when no file was attached.
	//
	// If any step fails after the picture was stored, the picture is deleted before the error is returned.
	Register(ctx context.Context, req *models.RegisterRequest, upload *models.Upload) error
}

// profilePicField is the preferred multipart field for the profile picture
const profilePicField = "profilePic"

// UserHandler handles login and registration HTTP requests
type UserHandler struct {
	BaseHandler
	authService         AuthService
	registrationService RegistrationService
	maxUploadSize       int64
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	authService AuthService,
	registrationService RegistrationService,
	maxUploadSize int64,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		BaseHandler:         BaseHandler{Logger: logger},
		authService:         authService,
		registrationService: registrationService,
		maxUploadSize:       maxUploadSize,
	}
}

// RegisterRoutes registers all user handler routes
// Note: This assumes the router is already scoped to /api
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.With(authMiddleware).Get("/me", h.Me)
	})
}

// Login handles POST /user/login
// @Summary Login user
// @Description Authenticate user with email and password. Returns the access token with user details and also sets it as an HTTP-only cookie.
// @Tags user
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.StatusResponse "Invalid request body"
// @Failure 401 "Invalid credentials"
// @Failure 500 {object} models.StatusResponse "Internal server error"
// @Router /user/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h.Logger.Error("failed to login user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setTokenCookie(w, resp.Token, resp.Expiration)
	h.RespondJSON(w, http.StatusOK, resp)
}

// Register handles POST /user/register
// @Summary Register a new user
// @Description Register a new user with email, password, name, role and an optional profile picture.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Param email formData string true "User email"
// @Param password formData string true "User password"
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param role formData string true "Role name, created when missing"
// @Param profilePic formData file false "Profile picture (optional)"
// @Success 200 {object} models.StatusResponse "User created successfully"
// @Failure 400 {object} models.StatusResponse "Invalid registration data or file"
// @Failure 409 {object} models.StatusResponse "User or file already exists"
// @Failure 500 {object} models.StatusResponse "User creation failed"
// @Failure 507 {object} models.StatusResponse "Profile picture could not be stored"
// @Router /user/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.Logger.Warn("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := &models.RegisterRequest{
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Role:      r.FormValue("role"),
	}

	var upload *models.Upload
	if fileHeader := pickProfilePic(r.MultipartForm); fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			h.Logger.Error("failed to open uploaded file", zap.Error(err))
			h.RespondError(w, http.StatusBadRequest, "failed to process profile picture")
			return
		}
		defer file.Close()

		upload = &models.Upload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Content:  file,
		}
	}

	if err := h.registrationService.Register(r.Context(), req, upload); err != nil {
		status, message := registerErrorResponse(err)
		if status >= http.StatusInternalServerError {
			h.Logger.Error("failed to register user", zap.Error(err))
		} else {
			h.Logger.Debug("registration rejected", zap.Error(err))
		}
		h.RespondError(w, status, message)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: "Success", Message: "User created successfully!"})
}

// Me handles GET /user/me
// @Summary Get current token claims
// @Description Returns the claims of the validated access token.
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ClaimsResponse
// @Failure 401 {object} models.StatusResponse "Missing, invalid or expired token"
// @Router /user/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	resp := models.ClaimsResponse{
		Subject: claims.Subject,
		TokenID: claims.ID,
		Roles:   claims.Roles,
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	if claims.ExpiresAt != nil {
		resp.Expiration = claims.ExpiresAt.Time
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// registerErrorResponse maps registration errors to a status code and a client-safe message
func registerErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidRegistration):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrEmptyUpload),
		errors.Is(err, services.ErrInvalidFileName):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrDuplicateUser),
		errors.Is(err, services.ErrUploadConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrFileIO):
		return http.StatusInsufficientStorage, services.ErrFileIO.Error()
	case errors.Is(err, services.ErrAccountCreationFailed):
		return http.StatusInternalServerError, services.ErrAccountCreationFailed.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// pickProfilePic returns the profilePic file, or the first attached file when that field is absent
func pickProfilePic(form *multipart.Form) *multipart.FileHeader {
	if form == nil || len(form.File) == 0 {
		return nil
	}

	if files := form.File[profilePicField]; len(files) > 0 {
		return files[0]
	}

	keys := make([]string, 0, len(form.File))
	for key := range form.File {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if files := form.File[key]; len(files) > 0 {
			return files[0]
		}
	}

	return nil
}

// setTokenCookie sets the access token as an HTTP-only cookie expiring together with the token
func (h *UserHandler) setTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
