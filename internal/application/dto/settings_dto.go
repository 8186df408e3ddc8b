package dto

// CompanyInfoDTO datos de empresa (GET/PUT /api/settings/company).
type CompanyInfoDTO struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	TaxID   string `json:"tax_id"`
	LogoURL string `json:"logo_url"`
}

// BankInfoDTO datos bancarios (GET/PUT /api/settings/bank).
type BankInfoDTO struct {
	BankName    string `json:"bank_name"`
	AccountName string `json:"account_name"`
	RIB         string `json:"rib"`
	IBAN        string `json:"iban"`
	SWIFT       string `json:"swift"`
}
