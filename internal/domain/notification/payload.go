package notification

import (
	"fmt"

	"github.com/tramites/backend/internal/domain/tramite"
)

// Payload is the push message contract consumed by the client-side receiver.
// Tag is stable per record so the client collapses duplicate pushes.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag"`
}

// NewPayload builds the push payload for a transition
func NewPayload(tr Transition, baseURL string) Payload {
	kind := "Requisición"
	path := "requisiciones"
	if tr.TramiteType == tramite.TypeReimbursement {
		kind = "Reposición"
		path = "reposiciones"
	}
	return Payload{
		Title: fmt.Sprintf("%s %s", kind, tr.Folio),
		Body:  fmt.Sprintf("Estado: %s", tr.NewEstado.DisplayName()),
		URL:   fmt.Sprintf("%s/%s/%s", baseURL, path, tr.TramiteID),
		Tag:   fmt.Sprintf("tramite-%s", tr.TramiteID),
	}
}
