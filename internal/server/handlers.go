package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/translation"
	"github.com/eprescribe/coordinator/internal/translation/dosage"
)

const contentTypeXML = "text/xml; charset=utf-8"

// Prepare returns the digest a prescriber must sign before the prescription
// can be submitted.
func (h *Handler) Prepare(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return h.writeError(c, err)
	}
	bundle, err := fhir.ParseBundle(body)
	if err != nil {
		return h.writeError(c, err)
	}
	parameters, err := translation.ConvertBundleToSignedInfoParameters(bundle)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, parameters)
}

// ProcessMessage translates a message bundle and submits it.
func (h *Handler) ProcessMessage(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return h.writeError(c, err)
	}
	bundle, err := fhir.ParseBundle(body)
	if err != nil {
		return h.writeError(c, err)
	}
	message, err := h.factory.FromBundle(bundle)
	if err != nil {
		return h.writeError(c, err)
	}
	return h.submit(c, message)
}

// SubmitTask translates a return or withdraw task and submits it.
func (h *Handler) SubmitTask(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return h.writeError(c, err)
	}
	task, err := fhir.ParseTask(body)
	if err != nil {
		return h.writeError(c, err)
	}
	message, err := h.factory.FromTask(task)
	if err != nil {
		return h.writeError(c, err)
	}
	return h.submit(c, message)
}

// SubmitClaim translates a reimbursement claim and submits it.
func (h *Handler) SubmitClaim(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return h.writeError(c, err)
	}
	claim, err := fhir.ParseClaim(body)
	if err != nil {
		return h.writeError(c, err)
	}
	message, err := h.factory.FromClaim(claim)
	if err != nil {
		return h.writeError(c, err)
	}
	return h.submit(c, message)
}

// Convert returns the canonical XML for a supported resource without
// submitting it.
func (h *Handler) Convert(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return h.writeError(c, err)
	}
	message, err := h.translate(body)
	if err != nil {
		return h.writeError(c, err)
	}
	doc, err := message.CanonicalXML()
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Blob(http.StatusOK, contentTypeXML, []byte(doc))
}

// DoseToText renders the dosage instructions of a MedicationRequest as
// human-readable text.
func (h *Handler) DoseToText(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return h.writeError(c, err)
	}
	request, err := fhir.ParseMedicationRequest(body)
	if err != nil {
		return h.writeError(c, err)
	}
	text, err := dosage.StringifyDosages(request.DosageInstruction)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"dosageInstructionText": text})
}

// Poll checks on a previously accepted submission.
func (h *Handler) Poll(c echo.Context) error {
	response, err := h.spine.Poll(c.Request().Context(), "/_poll/"+c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	if response.Pending() {
		c.Response().Header().Set("Content-Location", "/_poll/"+c.Param("id"))
		return c.NoContent(http.StatusAccepted)
	}
	return c.Blob(response.StatusCode, contentTypeXML, []byte(response.Body))
}

// translate picks a translator by resourceType.
func (h *Handler) translate(body []byte) (translation.PreparedMessage, error) {
	var probe struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return translation.PreparedMessage{}, fhir.NewInvalidValueError(
			"Request body is not a FHIR resource.", "resourceType",
		)
	}
	switch probe.ResourceType {
	case "Bundle":
		bundle, err := fhir.ParseBundle(body)
		if err != nil {
			return translation.PreparedMessage{}, err
		}
		return h.factory.FromBundle(bundle)
	case "Task":
		task, err := fhir.ParseTask(body)
		if err != nil {
			return translation.PreparedMessage{}, err
		}
		return h.factory.FromTask(task)
	case "Claim":
		claim, err := fhir.ParseClaim(body)
		if err != nil {
			return translation.PreparedMessage{}, err
		}
		return h.factory.FromClaim(claim)
	}
	return translation.PreparedMessage{}, fhir.NewInvalidValueError(
		"Unsupported resourceType '"+probe.ResourceType+"'.", "resourceType",
	)
}

// submit serializes the message and forwards it to the backbone. An accepted
// but unfinished submission maps to 202 with a local polling location.
func (h *Handler) submit(c echo.Context, message translation.PreparedMessage) error {
	doc, err := message.CanonicalXML()
	if err != nil {
		return h.writeError(c, err)
	}
	response, err := h.spine.Submit(c.Request().Context(), message.InteractionID, []byte(doc))
	if err != nil {
		return h.writeError(c, err)
	}
	if response.Pending() {
		c.Response().Header().Set("Content-Location", "/_poll/"+pollID(response.PollingPath))
		return c.NoContent(http.StatusAccepted)
	}
	return c.Blob(response.StatusCode, contentTypeXML, []byte(response.Body))
}

// pollID extracts the identifier from the backbone's polling location.
func pollID(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// writeError maps translation failures to 400 and everything else to 500,
// always with an OperationOutcome body.
func (h *Handler) writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if _, ok := fhir.AsProcessingError(err); ok {
		status = http.StatusBadRequest
	} else {
		h.logger.Error().Err(err).Msg("request failed")
	}
	return c.JSON(status, fhir.ErrorToOperationOutcome(err))
}

func readBody(c echo.Context) ([]byte, error) {
	return io.ReadAll(c.Request().Body)
}
