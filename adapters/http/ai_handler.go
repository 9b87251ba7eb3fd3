package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devang9890/resume/internal/application/service"
	resumeUC "github.com/devang9890/resume/internal/application/usecase/resume"
	"github.com/devang9890/resume/pkg/apperror"
)

type AIHandler struct {
	ingestUseCase    *resumeUC.IngestResumeUseCase
	ingestPDFUseCase *resumeUC.IngestPDFUseCase
	enhanceUseCase   *resumeUC.EnhanceTextUseCase
}

func NewAIHandler(ingestUC *resumeUC.IngestResumeUseCase, ingestPDFUC *resumeUC.IngestPDFUseCase, enhanceUC *resumeUC.EnhanceTextUseCase) *AIHandler {
	return &AIHandler{
		ingestUseCase:    ingestUC,
		ingestPDFUseCase: ingestPDFUC,
		enhanceUseCase:   enhanceUC,
	}
}

func (h *AIHandler) UploadResume(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req UploadResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewInvalidInput("invalid request body", err))
		return
	}

	output, err := h.ingestUseCase.Execute(c.Request.Context(), resumeUC.IngestResumeInput{
		OwnerID: ownerID,
		Title:   req.Title,
		RawText: req.ResumeText,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ingestResponse(output))
}

func (h *AIHandler) UploadResumePDF(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if fileHeader.Size > resumeUC.MaxPDFBytes {
		_ = c.Error(apperror.NewInvalidInput("resume file exceeds 10 MiB", nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(apperror.NewInternal("file cannot open", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, resumeUC.MaxPDFBytes+1))
	if err != nil {
		_ = c.Error(apperror.NewInvalidInput("failed to read resume file", err))
		return
	}

	output, err := h.ingestPDFUseCase.Execute(c.Request.Context(), resumeUC.IngestPDFInput{
		OwnerID: ownerID,
		Title:   c.PostForm("title"),
		Data:    data,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ingestResponse(output))
}

func (h *AIHandler) EnhanceProfessionalSummary(c *gin.Context) {
	h.enhance(c, service.EnhanceProfessionalSummary)
}

func (h *AIHandler) EnhanceJobDescription(c *gin.Context) {
	h.enhance(c, service.EnhanceJobDescription)
}

func (h *AIHandler) enhance(c *gin.Context, target service.EnhanceTarget) {
	var req EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewInvalidInput("invalid request body", err))
		return
	}

	output, err := h.enhanceUseCase.Execute(c.Request.Context(), resumeUC.EnhanceTextInput{Target: target, Text: req.UserContent})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enhanced_content": output.Content})
}

func ingestResponse(output *resumeUC.IngestResumeOutput) gin.H {
	body := gin.H{"resume_id": output.ResumeID}
	if len(output.Defects) > 0 {
		body["defects"] = ToDefectDTOs(output.Defects)
	}
	return body
}
