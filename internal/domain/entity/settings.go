package entity

import "time"

// CompanyInfo datos de la empresa emisora que aparecen en los PDF (tabla company_info).
type CompanyInfo struct {
	UserID    string
	Name      string
	Address   string
	Phone     string
	Email     string
	TaxID     string
	LogoURL   string
	UpdatedAt time.Time
}

// BankInfo datos bancarios impresos en las facturas (tabla bank_info).
type BankInfo struct {
	UserID      string
	BankName    string
	AccountName string
	RIB         string
	IBAN        string
	SWIFT       string
	UpdatedAt   time.Time
}
