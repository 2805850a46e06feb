package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentType - категория инцидента
type IncidentType string

const (
	TypeRoadHazard       IncidentType = "road_hazard"
	TypeTheft            IncidentType = "theft"
	TypeFlooding         IncidentType = "flooding"
	TypePowerOutage      IncidentType = "power_outage"
	TypeFire             IncidentType = "fire"
	TypeMedicalEmergency IncidentType = "medical_emergency"
	TypeOther            IncidentType = "other"
)

// IncidentTypes перечисляет все допустимые типы в порядке объявления
var IncidentTypes = []IncidentType{
	TypeRoadHazard,
	TypeTheft,
	TypeFlooding,
	TypePowerOutage,
	TypeFire,
	TypeMedicalEmergency,
	TypeOther,
}

// Valid сообщает, входит ли тип в перечисление
func (t IncidentType) Valid() bool {
	for _, v := range IncidentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Status - состояние инцидента в жизненном цикле модерации
type Status string

const (
	StatusReported Status = "reported"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
	StatusResolved Status = "resolved"
)

// Statuses перечисляет все состояния
var Statuses = []Status{StatusReported, StatusVerified, StatusRejected, StatusResolved}

func (s Status) Valid() bool {
	switch s {
	case StatusReported, StatusVerified, StatusRejected, StatusResolved:
		return true
	}
	return false
}

// DefaultRejectionReason сохраняется, когда модератор не указал причину отклонения
const DefaultRejectionReason = "No reason provided"

// GeoJSONPoint - единственный поддерживаемый тип геометрии
const GeoJSONPoint = "Point"

// Location хранится в формате GeoJSON: координаты [долгота, широта]
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address,omitempty"`
}

// NewLocation собирает точку из долготы и широты
func NewLocation(lon, lat float64, address string) Location {
	return Location{Type: GeoJSONPoint, Coordinates: [2]float64{lon, lat}, Address: address}
}

func (l Location) Longitude() float64 { return l.Coordinates[0] }
func (l Location) Latitude() float64  { return l.Coordinates[1] }

// Incident - сообщение о происшествии и его состояние модерации
type Incident struct {
	ID              uuid.UUID    `json:"id"`
	Type            IncidentType `json:"type"`
	Description     string       `json:"description"`
	Location        Location     `json:"location"`
	Images          []string     `json:"images"`
	Status          Status       `json:"status"`
	ReportedBy      uuid.UUID    `json:"reportedBy"`
	VerifiedBy      *uuid.UUID   `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time   `json:"verifiedAt,omitempty"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	ResolvedAt      *time.Time   `json:"resolvedAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`

	// DistanceKm заполняется только для выборок с гео-фильтром
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// IncidentDraft - поля, которые задает автор при создании сообщения
type IncidentDraft struct {
	Type        IncidentType
	Description string
	Longitude   float64
	Latitude    float64
	Address     string
	Images      []string
}

// IncidentPatch - частичное обновление. nil означает "не менять".
// RejectionReason со значением "" очищает причину.
type IncidentPatch struct {
	Type            *IncidentType
	Description     *string
	Location        *Location
	Images          *[]string
	Status          *Status
	VerifiedBy      *uuid.UUID
	VerifiedAt      *time.Time
	ResolvedAt      *time.Time
	RejectionReason *string
}

// Empty сообщает, что патч ничего не меняет
func (p IncidentPatch) Empty() bool {
	return p.Type == nil && p.Description == nil && p.Location == nil && p.Images == nil &&
		p.Status == nil && p.VerifiedBy == nil && p.VerifiedAt == nil && p.ResolvedAt == nil &&
		p.RejectionReason == nil
}

// Apply применяет патч к копии инцидента в памяти
func (p IncidentPatch) Apply(in Incident) Incident {
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Location != nil {
		in.Location = *p.Location
	}
	if p.Images != nil {
		in.Images = append([]string(nil), (*p.Images)...)
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.VerifiedBy != nil {
		id := *p.VerifiedBy
		in.VerifiedBy = &id
	}
	if p.VerifiedAt != nil {
		t := *p.VerifiedAt
		in.VerifiedAt = &t
	}
	if p.ResolvedAt != nil {
		t := *p.ResolvedAt
		in.ResolvedAt = &t
	}
	if p.RejectionReason != nil {
		in.RejectionReason = *p.RejectionReason
	}
	return in
}

// IncidentSnapshot - проекция инцидента для агрегаций
type IncidentSnapshot struct {
	ID         uuid.UUID
	Type       IncidentType
	Status     Status
	ReportedBy uuid.UUID
	CreatedAt  time.Time
	VerifiedAt *time.Time
	ResolvedAt *time.Time
}
