package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolParse/internal/application/parsing"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/pkg/errors"
	"github.com/turtacn/MolParse/pkg/types/chem"
	"github.com/turtacn/MolParse/pkg/types/common"
)

// MoleculeHandler serves the parse endpoint and the stored-molecule CRUD
// surface.
type MoleculeHandler struct {
	svc    parsing.Service
	logger logging.Logger
}

func NewMoleculeHandler(svc parsing.Service, logger logging.Logger) *MoleculeHandler {
	return &MoleculeHandler{svc: svc, logger: logger}
}

// Parse handles POST /api/v1/molecules/parse.  A rejected SMILES string is
// answered with the structured parse error and a 4xx status derived from the
// error code; infrastructure failures map through the common error envelope.
func (h *MoleculeHandler) Parse(c *gin.Context) {
	var req chem.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.svc.Parse(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if resp.Error != nil {
		c.JSON(statusForParseError(resp.Error.Code), common.APIResponse[*chem.ParseResponse]{
			Success: false,
			Data:    resp,
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
		})
		return
	}

	respondOK(c, http.StatusOK, resp)
}

// Get handles GET /api/v1/molecules/:id.
func (h *MoleculeHandler) Get(c *gin.Context) {
	dto, err := h.svc.GetMolecule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, dto)
}

// List handles GET /api/v1/molecules.
func (h *MoleculeHandler) List(c *gin.Context) {
	page, err := h.svc.ListMolecules(c.Request.Context(), parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// Delete handles DELETE /api/v1/molecules/:id.
func (h *MoleculeHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteMolecule(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
