package analysisapi

import (
	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysissrv"
	"github.com/Abraxas-365/resumatch/matching/user/userauth"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *analysissrv.AnalysisService
}

func NewHandlers(service *analysissrv.AnalysisService) *Handlers {
	return &Handlers{service: service}
}

// ============================================================================
// Upload routes
// ============================================================================

// ListAnalyses returns the caller's analyses
// GET /api/upload/analyses
func (h *Handlers) ListAnalyses(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListAnalyses(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(analysis.ListAnalysesResponse{Analyses: list})
}

// SaveAnalysis appends a resume/JD pair
// POST /api/upload/save-analysis
func (h *Handlers) SaveAnalysis(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	var req analysis.SaveAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return analysis.ErrInvalidRequest().WithCause(err)
	}

	a, err := h.service.SaveAnalysis(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(analysis.SaveAnalysisResponse{
		Message:    "Analysis saved successfully",
		AnalysisID: a.ID,
	})
}

// ============================================================================
// Analysis routes
// ============================================================================

// Submit is the {success, data} variant of SaveAnalysis
// POST /api/analysis/submit
func (h *Handlers) Submit(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	var req analysis.SaveAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return analysis.ErrInvalidRequest().WithCause(err)
	}

	a, err := h.service.SaveAnalysis(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(analysis.Envelope{Success: true, Data: a})
}

// MyAnalyses is the {success, data} variant of ListAnalyses
// GET /api/analysis/my-analyses
func (h *Handlers) MyAnalyses(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListAnalyses(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(analysis.Envelope{Success: true, Data: list})
}

// Analyze runs the keyword match
// POST /api/analysis/analyze
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	var req analysis.AnalyzeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return analysis.ErrInvalidRequest().WithCause(err)
		}
	}

	resp, err := h.service.Analyze(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Roadmap curates learning resources for missing skills
// POST /api/analysis/roadmap
func (h *Handlers) Roadmap(c *fiber.Ctx) error {
	var req analysis.RoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return analysis.ErrInvalidRequest().WithCause(err)
	}

	plan, err := h.service.CurateLearningResources(c.UserContext(), req.MissingSkills)
	if err != nil {
		return err
	}

	return c.JSON(analysis.RoadmapResponse{Plan: *plan})
}

// GetCurrent returns the caller's current resume/JD pair
// GET /api/analysis/current
func (h *Handlers) GetCurrent(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	current, err := h.service.Current(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(analysis.CurrentResponse{Current: current})
}

// ClearCurrent drops the caller's current pair
// DELETE /api/analysis/current
func (h *Handlers) ClearCurrent(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.ClearCurrent(c.UserContext(), userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes registers analysis routes. Every route requires authentication.
func RegisterRoutes(
	router fiber.Router,
	handlers *Handlers,
	authMiddleware fiber.Handler,
) {
	upload := router.Group("/api/upload")
	upload.Get("/analyses", authMiddleware, handlers.ListAnalyses)
	upload.Post("/save-analysis", authMiddleware, handlers.SaveAnalysis)

	an := router.Group("/api/analysis")
	an.Post("/submit", authMiddleware, handlers.Submit)
	an.Get("/my-analyses", authMiddleware, handlers.MyAnalyses)
	an.Post("/analyze", authMiddleware, handlers.Analyze)
	an.Post("/roadmap", authMiddleware, handlers.Roadmap)
	an.Get("/current", authMiddleware, handlers.GetCurrent)
	an.Delete("/current", authMiddleware, handlers.ClearCurrent)
}
