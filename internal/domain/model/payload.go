package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PhotoJobData is the payload of a photo processing job.
// Booleans are pointers so an absent flag can be told apart from an explicit false.
type PhotoJobData struct {
	PhotoID             string            `json:"photoId"`
	RequestID           string            `json:"requestId,omitempty"`
	ModelOverrides      json.RawMessage   `json:"modelOverrides,omitempty"`
	ProcessMetadata     *bool             `json:"processMetadata,omitempty"`
	GenerateThumbnail   *bool             `json:"generateThumbnail,omitempty"`
	GenerateDisplay     *bool             `json:"generateDisplay,omitempty"`
	RunAIAnalysis       *bool             `json:"runAiAnalysis,omitempty"`
	CollectibleOverride json.RawMessage   `json:"collectibleOverride,omitempty"`
	TraceContext        map[string]string `json:"traceContext,omitempty"`
}

// AIRequested reports whether the job asks for AI analysis.
// Jobs enqueued before the flag existed carry no value and count as AI-enabled.
func (d *PhotoJobData) AIRequested() bool {
	return d.RunAIAnalysis == nil || *d.RunAIAnalysis
}

// AssessmentJobData is the payload of an application assessment job.
type AssessmentJobData struct {
	AssessmentID string            `json:"assessmentId"`
	TraceContext map[string]string `json:"traceContext,omitempty"`
}

// JobPayload is the decoded, typed form of a job's data.
// Implementations: *PhotoPayload, *AssessmentPayload, *LegacyPayload.
type JobPayload interface {
	// Carrier returns the propagated trace context, if any.
	Carrier() map[string]string
	isJobPayload()
}

// PhotoPayload is the payload of a process-photo-ai job.
type PhotoPayload struct {
	Data PhotoJobData
}

// AssessmentPayload is the payload of a run-app-assessment job.
type AssessmentPayload struct {
	Data AssessmentJobData
}

// LegacyPayload is a job with an unknown or absent name. These predate job
// names and are processed as photo jobs.
type LegacyPayload struct {
	Name JobName
	Data PhotoJobData
}

func (p *PhotoPayload) Carrier() map[string]string      { return p.Data.TraceContext }
func (p *AssessmentPayload) Carrier() map[string]string { return p.Data.TraceContext }
func (p *LegacyPayload) Carrier() map[string]string     { return p.Data.TraceContext }

func (*PhotoPayload) isJobPayload()      {}
func (*AssessmentPayload) isJobPayload() {}
func (*LegacyPayload) isJobPayload()     {}

// ErrNilJob is returned when a nil job is decoded.
var ErrNilJob = errors.New("job is nil")

// DecodePayload decodes the job data according to its name.
func DecodePayload(job *Job) (JobPayload, error) {
	if job == nil {
		return nil, ErrNilJob
	}

	switch job.Name {
	case JobNameRunAssessment:
		var data AssessmentJobData
		if err := decodeData(job.Data, &data); err != nil {
			return nil, err
		}
		return &AssessmentPayload{Data: data}, nil
	case JobNameProcessPhoto:
		var data PhotoJobData
		if err := decodeData(job.Data, &data); err != nil {
			return nil, err
		}
		return &PhotoPayload{Data: data}, nil
	default:
		var data PhotoJobData
		if err := decodeData(job.Data, &data); err != nil {
			return nil, err
		}
		return &LegacyPayload{Name: job.Name, Data: data}, nil
	}
}

func decodeData(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode job data: %w", err)
	}
	return nil
}

// PhotoDataOf returns the photo payload carried by the job, if any.
func PhotoDataOf(job *Job) (*PhotoJobData, bool) {
	payload, err := DecodePayload(job)
	if err != nil {
		return nil, false
	}
	switch p := payload.(type) {
	case *PhotoPayload:
		return &p.Data, true
	case *LegacyPayload:
		return &p.Data, true
	default:
		return nil, false
	}
}
