package model

import "encoding/json"

// DerivativeRequest asks the image service for the browser-facing derivatives of a photo.
type DerivativeRequest struct {
	PhotoID           string `json:"photoId"`
	RequestID         string `json:"requestId,omitempty"`
	ProcessMetadata   bool   `json:"processMetadata"`
	GenerateThumbnail bool   `json:"generateThumbnail"`
	GenerateDisplay   bool   `json:"generateDisplay"`
}

// AnalysisRequest asks the AI service to analyse a photo.
type AnalysisRequest struct {
	PhotoID             string          `json:"photoId"`
	RequestID           string          `json:"requestId,omitempty"`
	ModelOverrides      json.RawMessage `json:"modelOverrides,omitempty"`
	CollectibleOverride json.RawMessage `json:"collectibleOverride,omitempty"`
}

// AnalysisResult is the opaque outcome of an AI analysis. A nil result means
// the analysis was inconclusive.
type AnalysisResult struct {
	Raw json.RawMessage `json:"result"`
}

// AuxiliaryAssetRequest asks for secondary assets of a finished photo.
type AuxiliaryAssetRequest struct {
	PhotoID   string `json:"photoId"`
	RequestID string `json:"requestId,omitempty"`
}

// NewDerivativeRequest builds a derivative request from job data. Absent flags default to true.
func NewDerivativeRequest(d *PhotoJobData) DerivativeRequest {
	return DerivativeRequest{
		PhotoID:           d.PhotoID,
		RequestID:         d.RequestID,
		ProcessMetadata:   boolOr(d.ProcessMetadata, true),
		GenerateThumbnail: boolOr(d.GenerateThumbnail, true),
		GenerateDisplay:   boolOr(d.GenerateDisplay, true),
	}
}

// NewAnalysisRequest builds an analysis request from job data.
func NewAnalysisRequest(d *PhotoJobData) AnalysisRequest {
	return AnalysisRequest{
		PhotoID:             d.PhotoID,
		RequestID:           d.RequestID,
		ModelOverrides:      d.ModelOverrides,
		CollectibleOverride: d.CollectibleOverride,
	}
}

// NewAuxiliaryAssetRequest builds an auxiliary asset request from job data.
func NewAuxiliaryAssetRequest(d *PhotoJobData) AuxiliaryAssetRequest {
	return AuxiliaryAssetRequest{PhotoID: d.PhotoID, RequestID: d.RequestID}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
