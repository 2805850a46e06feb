package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MaxDescriptionLength = 1000
	MaxImages            = 10
)

var validate = validator.New()

// draftRules - правила валидации полей черновика и патча
type draftRules struct {
	Type        string   `validate:"required,oneof=road_hazard theft flooding power_outage fire medical_emergency other"`
	Description string   `validate:"required,min=1,max=1000"`
	Images      []string `validate:"max=10,dive,required,max=2048"`
}

// ValidateCoordinates проверяет, что долгота и широта конечны и лежат в допустимых диапазонах
func ValidateCoordinates(lon, lat float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return fmt.Errorf("%w: coordinates must be finite numbers", ErrValidation)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	return nil
}

// NewIncident проверяет черновик и собирает новый инцидент в статусе reported
func NewIncident(d IncidentDraft, reporter uuid.UUID) (*Incident, error) {
	d.Description = strings.TrimSpace(d.Description)
	d.Address = strings.TrimSpace(d.Address)
	if d.Images == nil {
		d.Images = []string{}
	}
	if err := validateFields(string(d.Type), d.Description, d.Images); err != nil {
		return nil, err
	}
	if err := ValidateCoordinates(d.Longitude, d.Latitude); err != nil {
		return nil, err
	}
	if reporter == uuid.Nil {
		return nil, fmt.Errorf("%w: reporter is required", ErrValidation)
	}
	return &Incident{
		Type:        d.Type,
		Description: d.Description,
		Location:    NewLocation(d.Longitude, d.Latitude, d.Address),
		Images:      d.Images,
		Status:      StatusReported,
		ReportedBy:  reporter,
	}, nil
}

// ValidateOwnerPatch проверяет патч, который может прислать автор сообщения.
// Поля статуса и модерации в нем недопустимы.
func ValidateOwnerPatch(p *IncidentPatch) error {
	if p.Status != nil || p.VerifiedBy != nil || p.VerifiedAt != nil || p.ResolvedAt != nil || p.RejectionReason != nil {
		return fmt.Errorf("%w: moderation fields cannot be updated directly", ErrValidation)
	}
	if p.Empty() {
		return fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	rules := draftRules{Type: string(TypeOther), Description: "-", Images: []string{}}
	if p.Type != nil {
		rules.Type = string(*p.Type)
	}
	if p.Description != nil {
		trimmed := strings.TrimSpace(*p.Description)
		p.Description = &trimmed
		rules.Description = trimmed
	}
	if p.Images != nil {
		rules.Images = *p.Images
	}
	if err := validateFields(rules.Type, rules.Description, rules.Images); err != nil {
		return err
	}
	if p.Location != nil {
		p.Location.Type = GeoJSONPoint
		p.Location.Address = strings.TrimSpace(p.Location.Address)
		if err := ValidateCoordinates(p.Location.Longitude(), p.Location.Latitude()); err != nil {
			return err
		}
	}
	return nil
}

func validateFields(typ, description string, images []string) error {
	err := validate.Struct(draftRules{Type: typ, Description: description, Images: images})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.StructField())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "max":
		if field == "description" {
			return fmt.Sprintf("description cannot exceed %d characters", MaxDescriptionLength)
		}
		return fmt.Sprintf("%s exceeds maximum of %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s is too short", field)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
