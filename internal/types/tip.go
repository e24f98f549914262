package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tip is a citizen-submitted sighting report. Immutable once created:
// verification attaches to it, never mutates it.
type Tip struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaseID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"case_id"`
	Case             *Case           `gorm:"constraint:OnDelete:CASCADE;foreignKey:CaseID;references:ID" json:"case,omitempty"`
	TipsterProfileID *uuid.UUID      `gorm:"type:uuid;column:tipster_profile_id;index" json:"tipster_profile_id,omitempty"`
	TipsterProfile   *TipsterProfile `gorm:"constraint:OnDelete:SET NULL;foreignKey:TipsterProfileID;references:ID" json:"tipster_profile,omitempty"`
	Content          string          `gorm:"column:content;not null" json:"content"`
	Latitude         *float64        `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude        *float64        `gorm:"column:longitude" json:"longitude,omitempty"`
	LocationText     string          `gorm:"column:location_text" json:"location_text"`
	SightedAt        *time.Time      `gorm:"column:sighted_at" json:"sighted_at,omitempty"`
	Anonymous        bool            `gorm:"column:anonymous;not null;default:false" json:"anonymous"`
	Attachments      []TipAttachment `gorm:"foreignKey:TipID;references:ID" json:"attachments,omitempty"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Tip) TableName() string { return "tip" }

// TipAttachment carries photo metadata for a tip. Owned by exactly one tip.
type TipAttachment struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TipID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"tip_id"`
	FileName           string         `gorm:"column:file_name" json:"file_name"`
	MimeType           string         `gorm:"column:mime_type" json:"mime_type"`
	StorageURL         string         `gorm:"column:storage_url" json:"storage_url"`
	CapturedAt         *time.Time     `gorm:"column:captured_at" json:"captured_at,omitempty"`
	Latitude           *float64       `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude          *float64       `gorm:"column:longitude" json:"longitude,omitempty"`
	DeviceInfo         string         `gorm:"column:device_info" json:"device_info"`
	AIGenerated        bool           `gorm:"column:ai_generated;not null;default:false" json:"ai_generated"`
	Manipulated        bool           `gorm:"column:manipulated;not null;default:false" json:"manipulated"`
	StockPhotoMatch    bool           `gorm:"column:stock_photo_match;not null;default:false" json:"stock_photo_match"`
	DetectedFaceCount  int            `gorm:"column:detected_face_count;not null;default:0" json:"detected_face_count"`
	MatchesSubject     bool           `gorm:"column:matches_subject;not null;default:false" json:"matches_subject"`
	Metadata           datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TipAttachment) TableName() string { return "tip_attachment" }
