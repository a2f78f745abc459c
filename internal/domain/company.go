package domain

// APIConfig holds credentials for an external e-invoicing provider.
// Opaque placeholder: no submission protocol is implemented.
type APIConfig struct {
	Provider    string `json:"provider,omitempty"`
	Environment string `json:"environment,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	APISecret   string `json:"apiSecret,omitempty"`
}

// CompanyProfile is the issuer identity printed on invoices. Currency is a
// semantic code only; formatting is a presentation concern.
type CompanyProfile struct {
	Name      string     `json:"name"`
	TaxID     string     `json:"taxId"`
	Email     string     `json:"email,omitempty"`
	Address   string     `json:"address,omitempty"`
	City      string     `json:"city,omitempty"`
	Zip       string     `json:"zip,omitempty"`
	Country   string     `json:"country,omitempty"`
	Currency  string     `json:"currency"`
	APIConfig *APIConfig `json:"apiConfig,omitempty"`
}
