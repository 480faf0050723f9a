package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fadilmartias/career-pulse/internal/dto"
	"github.com/fadilmartias/career-pulse/internal/middleware"
	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/usecase"
	"github.com/fadilmartias/career-pulse/internal/util"
	"github.com/gofiber/fiber/v2"
)

const maxResumeSize = 5 * 1024 * 1024

type WorkspaceHandler struct {
	uc *usecase.WorkspaceUsecase
}

func NewWorkspaceHandler(uc *usecase.WorkspaceUsecase) *WorkspaceHandler {
	return &WorkspaceHandler{uc: uc}
}

func (h *WorkspaceHandler) RegisterRoutes(app fiber.Router) {
	g := app.Group("/workspaces")
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Delete("/:id", h.Delete)
	g.Post("/:id/analyze", middleware.RateLimiter(5, time.Minute), h.Analyze)
	g.Get("/:id/tabs/:tab", h.Tab)
	g.Put("/:id/target-job", h.AttachTargetJob)
	g.Post("/:id/studio", middleware.RateLimiter(10, time.Minute), h.RegenerateStudio)
	g.Post("/:id/reset", h.Reset)
}

func (h *WorkspaceHandler) Create(c *fiber.Ctx) error {
	o, err := h.uc.Create()
	if err != nil {
		return respondError(c, "failed to create workspace", err, fiber.StatusInternalServerError)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create workspace",
		Data:    dto.NewWorkspaceDTO(o.Snapshot()),
	})
}

func (h *WorkspaceHandler) Get(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "workspace not found", err, fiber.StatusNotFound)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get workspace",
		Data:    dto.NewWorkspaceDTO(o.Snapshot()),
	})
}

func (h *WorkspaceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, "workspace not found", err, fiber.StatusNotFound)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success delete workspace",
	})
}

func (h *WorkspaceHandler) Analyze(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "workspace not found", err, fiber.StatusNotFound)
	}

	profile, err := h.parseProfile(c)
	if err != nil {
		return respondError(c, "invalid profile", err, fiber.StatusBadRequest)
	}

	if _, err := o.RunCoreAnalysis(c.UserContext(), profile); err != nil {
		return respondError(c, "failed to analyze profile", err, fiber.StatusInternalServerError)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success analyze profile",
		Data:    dto.NewWorkspaceDTO(o.Snapshot()),
	})
}

func (h *WorkspaceHandler) Tab(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "workspace not found", err, fiber.StatusNotFound)
	}
	tab, ok := model.ParseTab(c.Params("tab"))
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("unknown tab %q", c.Params("tab")),
		})
	}

	view, err := o.Navigate(tab)
	if err != nil {
		return respondError(c, "report is not ready", err, fiber.StatusConflict)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get tab",
		Data:    view,
	})
}

func (h *WorkspaceHandler) AttachTargetJob(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "workspace not found", err, fiber.StatusNotFound)
	}
	var req dto.TargetJobRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "invalid request body", fmt.Errorf("%w: %v", model.ErrInvalidTargetJob, err), fiber.StatusBadRequest)
	}

	scheduled, err := o.AttachTargetJob(req.ToModel())
	if err != nil {
		return respondError(c, "failed to attach target job", err, fiber.StatusInternalServerError)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success attach target job",
		Data:    fiber.Map{"studioScheduled": scheduled},
	})
}

func (h *WorkspaceHandler) RegenerateStudio(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "workspace not found", err, fiber.StatusNotFound)
	}
	var req dto.TargetJobRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "invalid request body", fmt.Errorf("%w: %v", model.ErrInvalidTargetJob, err), fiber.StatusBadRequest)
	}

	materials, err := o.RegenerateStudio(c.UserContext(), req.ToModel())
	if err != nil {
		return respondError(c, "failed to generate materials", err, fiber.StatusBadGateway)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success generate materials",
		Data:    materials,
	})
}

func (h *WorkspaceHandler) Reset(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "workspace not found", err, fiber.StatusNotFound)
	}
	o.Reset()
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success reset workspace",
		Data:    dto.NewWorkspaceDTO(o.Snapshot()),
	})
}

// parseProfile accepts either a JSON body or a multipart form with a
// "resume" file.
func (h *WorkspaceHandler) parseProfile(c *fiber.Ctx) (model.ProfileData, error) {
	var req dto.ProfileRequest
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return model.ProfileData{}, fmt.Errorf("%w: %v", model.ErrInvalidProfile, err)
		}
		return req.ToModel()
	}

	req = dto.ProfileRequest{
		GithubUsername:     c.FormValue("githubUsername"),
		LeetcodeUsername:   c.FormValue("leetcodeUsername"),
		CodeforcesUsername: c.FormValue("codeforcesUsername"),
		CodechefUsername:   c.FormValue("codechefUsername"),
		CollegeName:        c.FormValue("collegeName"),
		Resume:             dto.ResumeRequest{Text: c.FormValue("resumeText")},
	}
	job := dto.TargetJobRequest{
		Company:     c.FormValue("company"),
		Role:        c.FormValue("role"),
		Description: c.FormValue("description"),
	}
	if !job.IsEmpty() {
		req.TargetJob = &job
	}
	profile, err := req.ToModel()
	if err != nil {
		return model.ProfileData{}, err
	}

	file, err := c.FormFile("resume")
	if err != nil {
		// Text-only submissions carry the resume in resumeText.
		return profile, nil
	}
	if file.Size > maxResumeSize {
		return model.ProfileData{}, fmt.Errorf("%w: resume file size is too large (max 5MB)", model.ErrInvalidProfile)
	}
	f, err := file.Open()
	if err != nil {
		return model.ProfileData{}, fmt.Errorf("cannot read resume file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return model.ProfileData{}, fmt.Errorf("cannot read resume file: %w", err)
	}

	mimeType := file.Header.Get(fiber.HeaderContentType)
	if mimeType == "" || mimeType == fiber.MIMEOctetStream {
		mimeType = http.DetectContentType(data)
	}
	profile.Resume.Data = data
	profile.Resume.MIMEType = strings.TrimSpace(strings.Split(mimeType, ";")[0])
	return profile, nil
}
