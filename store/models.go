package store

import "time"

type userModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	ProviderID  string    `gorm:"uniqueIndex;size:255;not null"`
	Email       string    `gorm:"size:255"`
	Name        string    `gorm:"size:255"`
	Role        string    `gorm:"size:16;not null;default:user"`
	Picture     string    `gorm:"size:1024"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
	LastLoginAt *time.Time
}

func (userModel) TableName() string { return "users" }

type categoryModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:255;not null"`
	DisplayOrder int    `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null"`
}

func (categoryModel) TableName() string { return "form_categories" }

type formModel struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	Title           string    `gorm:"size:255;not null"`
	Slug            string    `gorm:"uniqueIndex;size:320;not null"`
	Description     string    `gorm:"type:text"`
	CategoryID      int64     `gorm:"index;not null"`
	PracticeArea    string    `gorm:"size:255;not null"`
	FileURL         string    `gorm:"size:1024"`
	Price           float64   `gorm:"not null;default:0"`
	IsFree          bool      `gorm:"not null;default:false"`
	CreatedBy       string    `gorm:"index;size:36;not null"`
	CreatedByType   string    `gorm:"size:16;not null"`
	Status          string    `gorm:"index;size:16;not null"`
	ApprovedBy      string    `gorm:"size:36"`
	RejectionReason string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (formModel) TableName() string { return "legal_forms" }

// formRow is a form joined with its category name.
type formRow struct {
	formModel
	CategoryName string
}

type downloadModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"index;size:36;not null"`
	FormID    int64  `gorm:"index;not null"`
	CreatedAt time.Time
}

func (downloadModel) TableName() string { return "user_forms" }

type lawyerModel struct {
	UserID             string `gorm:"primaryKey;size:36"`
	SubscriptionTier   string `gorm:"size:32"`
	SubscriptionStatus string `gorm:"size:32"`
	IsVerified         bool   `gorm:"not null;default:false"`
	VerificationStatus string `gorm:"size:32"`
	PlanRestrictions   string `gorm:"type:text"` // JSON object, feature -> allowed
	UpdatedAt          time.Time
}

func (lawyerModel) TableName() string { return "lawyers" }
