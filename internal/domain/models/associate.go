package models

type AssociateStatus string

const (
	AssociateActive    AssociateStatus = "ACTIVE"
	AssociateInactive  AssociateStatus = "INACTIVE"
	AssociateSuspended AssociateStatus = "SUSPENDED"
)

type Associate struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId"`
	BankAccountID *int64          `json:"bankAccountId,omitempty"`
	Level         int             `json:"level"`
	Status        AssociateStatus `json:"status"`
	JoinDate      string          `json:"joinDate"`
	ReferralCode  string          `json:"referralCode,omitempty"`
	User          *User           `json:"user,omitempty"`
}

// AssociateProfile is the self-data record persisted under "associateUser".
type AssociateProfile struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	Level        int             `json:"level,omitempty"`
	Status       AssociateStatus `json:"status,omitempty"`
	ReferralCode string          `json:"referralCode,omitempty"`
	ParentID     *int64          `json:"parentId,omitempty"`
}

type BankDetails struct {
	ID                int64  `json:"id,omitempty"`
	AssociateID       int64  `json:"associateId,omitempty"`
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
	AccountHolderName string `json:"accountHolderName"`
	IsActive          bool   `json:"isActive"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

type UpdateParentRequest struct {
	ParentID int64   `json:"parentId"`
	BVValue  float64 `json:"bvValue"`
}

type UploadDocument struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	DocumentType string `json:"documentType"`
	FileName     string `json:"fileName"`
	FileURL      string `json:"fileUrl"`
	Status       string `json:"status"`
	UploadedAt   string `json:"uploadedAt"`
}

// Distributor is sent as is; the core backend owns its schema.
type Distributor map[string]any
