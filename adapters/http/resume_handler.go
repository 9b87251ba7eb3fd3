package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	resumeUC "github.com/devang9890/resume/internal/application/usecase/resume"
	"github.com/devang9890/resume/pkg/apperror"
)

type ResumeHandler struct {
	createUseCase    *resumeUC.CreateResumeUseCase
	listUseCase      *resumeUC.ListResumesUseCase
	getUseCase       *resumeUC.GetResumeUseCase
	getPublicUseCase *resumeUC.GetPublicResumeUseCase
	updateUseCase    *resumeUC.UpdateResumeUseCase
	deleteUseCase    *resumeUC.DeleteResumeUseCase
}

func NewResumeHandler(
	createUC *resumeUC.CreateResumeUseCase,
	listUC *resumeUC.ListResumesUseCase,
	getUC *resumeUC.GetResumeUseCase,
	getPublicUC *resumeUC.GetPublicResumeUseCase,
	updateUC *resumeUC.UpdateResumeUseCase,
	deleteUC *resumeUC.DeleteResumeUseCase,
) *ResumeHandler {
	return &ResumeHandler{
		createUseCase:    createUC,
		listUseCase:      listUC,
		getUseCase:       getUC,
		getPublicUseCase: getPublicUC,
		updateUseCase:    updateUC,
		deleteUseCase:    deleteUC,
	}
}

func (h *ResumeHandler) CreateResume(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewInvalidInput("invalid request body", err))
		return
	}

	output, err := h.createUseCase.Execute(c.Request.Context(), resumeUC.CreateResumeInput{OwnerID: ownerID, Title: req.Title})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resume": ToResumeDTO(output.Resume)})
}

func (h *ResumeHandler) ListResumes(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	output, err := h.listUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumes": ToResumeDTOs(output.Resumes)})
}

func (h *ResumeHandler) GetResume(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	resumeID, ok := resumeIDParam(c)
	if !ok {
		return
	}

	output, err := h.getUseCase.Execute(c.Request.Context(), resumeUC.GetResumeInput{OwnerID: ownerID, ResumeID: resumeID})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resume": ToResumeDTO(output.Resume)})
}

func (h *ResumeHandler) GetPublicResume(c *gin.Context) {
	resumeID, ok := resumeIDParam(c)
	if !ok {
		return
	}

	output, err := h.getPublicUseCase.Execute(c.Request.Context(), resumeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resume": ToResumeDTO(output.Resume)})
}

// UpdateResume accepts either a JSON patch body or a multipart form with
// a resumeData JSON field, an optional image file and removeBackground.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	resumeID, ok := resumeIDParam(c)
	if !ok {
		return
	}

	input := resumeUC.UpdateResumeInput{OwnerID: ownerID, ResumeID: resumeID}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if raw := c.PostForm("resumeData"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &input.Patch); err != nil {
				_ = c.Error(apperror.NewInvalidInput("'resumeData' must be a JSON object", err))
				return
			}
		}

		fileHeader, err := c.FormFile("image")
		if err == nil {
			if fileHeader.Size > resumeUC.MaxImageBytes {
				_ = c.Error(apperror.NewInvalidInput("image exceeds 5 MiB", nil))
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				_ = c.Error(apperror.NewInternal("file cannot open", err))
				return
			}
			defer file.Close()

			removeBackground, _ := strconv.ParseBool(c.PostForm("removeBackground"))
			input.Image = &resumeUC.ImageUpload{File: file, RemoveBackground: removeBackground}
		} else if err != http.ErrMissingFile {
			_ = c.Error(apperror.NewInvalidInput("invalid 'image' upload", err))
			return
		}
	} else if err := c.ShouldBindJSON(&input.Patch); err != nil {
		_ = c.Error(apperror.NewInvalidInput("request body must be a JSON object", err))
		return
	}

	output, err := h.updateUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	body := gin.H{"resume": ToResumeDTO(output.Resume)}
	if len(output.Defects) > 0 {
		body["defects"] = ToDefectDTOs(output.Defects)
	}
	c.JSON(http.StatusOK, body)
}

func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	resumeID, ok := resumeIDParam(c)
	if !ok {
		return
	}

	if _, err := h.deleteUseCase.Execute(c.Request.Context(), resumeUC.DeleteResumeInput{OwnerID: ownerID, ResumeID: resumeID}); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func requireOwner(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		_ = c.Error(apperror.NewUnauthorized("owner information not found", nil))
	}
	return ownerID, ok
}

func resumeIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperror.NewInvalidInput("invalid resume ID", err))
		return uuid.Nil, false
	}
	return id, true
}
