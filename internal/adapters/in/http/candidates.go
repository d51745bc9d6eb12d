package http

import (
	"net/http"
	"strconv"
	"time"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/application/usecases/queries"
	"helperhub/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type Candidate struct {
	ID        string    `json:"id"`
	HelperID  string    `json:"helper_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

// ListOrderCandidates handles GET /api/v1/orders/:orderId/candidates.
// ?active=true limits the list to applied and selected candidates.
func (s *Server) ListOrderCandidates(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	activeOnly := false
	if raw := ctx.QueryParam("active"); raw != "" {
		if activeOnly, err = strconv.ParseBool(raw); err != nil {
			return badRequest(ctx, "active must be a boolean")
		}
	}
	query, err := queries.NewListOrderCandidatesQuery(orderID, activeOnly)
	if err != nil {
		return respondError(ctx, err)
	}
	views, err := s.h.ListOrderCandidates.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	resp := make([]Candidate, len(views))
	for i, v := range views {
		resp[i] = Candidate{
			ID:        v.ID.String(),
			HelperID:  v.HelperID.String(),
			Status:    v.Status,
			AppliedAt: v.AppliedAt,
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

// ApplyCandidate handles POST /api/v1/orders/:orderId/candidates.
func (s *Server) ApplyCandidate(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body HelperRef
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor := actorFrom(ctx)
	helperID, err := uuidOrActor("helper_id", body.HelperID, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	candidateID := kernel.NewUUID()
	cmd, err := commands.NewApplyCandidateCommand(candidateID, orderID, helperID, actor)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ApplyCandidate.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, candidateID)
}

// SelectCandidate handles POST /api/v1/orders/:orderId/candidates/:candidateId/select.
func (s *Server) SelectCandidate(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	candidateID, err := pathUUID(ctx, "candidateId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewSelectCandidateCommand(orderID, candidateID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.SelectCandidate.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RemoveCandidate handles DELETE /api/v1/orders/:orderId/helpers/:helperId.
func (s *Server) RemoveCandidate(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	helperID, err := pathUUID(ctx, "helperId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewRemoveCandidateCommand(orderID, helperID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.RemoveCandidate.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
