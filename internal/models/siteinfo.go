package models

// SiteInfo is a singleton contact record editable by admins.
type SiteInfo struct {
	ID             uint   `json:"-" gorm:"primary_key"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	ContactAddress string `json:"contact_address"`
	Extra          string `json:"extra" gorm:"type:text"`
}

func (SiteInfo) TableName() string {
	return "site_info"
}
