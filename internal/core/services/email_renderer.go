package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/platform/config"
	"github.com/SscSPs/disbursement_notifier/internal/utils"
)

//go:embed templates/disbursement.html
var templateFS embed.FS

var disbursementTemplate = template.Must(template.ParseFS(templateFS, "templates/disbursement.html"))

const (
	subjectPrefix = "[NO REPLY] Thông báo Giải ngân Khoản vay theo Hợp đồng số "
	logoPath      = "/logo.png"
)

// EmailSubject returns the subject line for a contract.
func EmailSubject(contractCode string) string {
	return subjectPrefix + contractCode
}

// LogoResolver picks the absolute logo URL embedded in emails. Email clients
// cannot resolve relative paths, so the result is always absolute.
type LogoResolver struct {
	PublicBaseURL      string
	DeploymentHostname string
	Fallback           string
}

// NewLogoResolver builds a LogoResolver from configuration.
func NewLogoResolver(cfg *config.Config) LogoResolver {
	return LogoResolver{
		PublicBaseURL:      cfg.PublicBaseURL,
		DeploymentHostname: cfg.DeploymentHostname,
		Fallback:           config.DefaultFallbackSite,
	}
}

// Resolve returns explicit when set, otherwise the first configured base
// with "/logo.png" appended.
func (r LogoResolver) Resolve(explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	return r.baseURL() + logoPath
}

func (r LogoResolver) baseURL() string {
	switch {
	case r.PublicBaseURL != "":
		return strings.TrimRight(r.PublicBaseURL, "/")
	case r.DeploymentHostname != "":
		return "https://" + strings.TrimRight(r.DeploymentHostname, "/")
	case r.Fallback != "":
		return strings.TrimRight(r.Fallback, "/")
	default:
		return config.DefaultFallbackSite
	}
}

// templateData is what the HTML template sees. Every string is escaped by
// html/template on output.
type templateData struct {
	CustomerName            string
	ContractCode            string
	DisbursementAmount      string
	DisbursementAmountWords string
	DisbursementDate        string
	BankAccountNumber       string
	BankName                string
	BeneficiaryName         string
	TotalLoanAmount         string
	LoanTermMonths          int
	LoanStartDate           string
	LoanEndDate             string
	DueDayEachMonth         int
	LogoURL                 string
}

// EmailRenderer turns a disbursement record into the notification subject and HTML body.
type EmailRenderer struct {
	logos LogoResolver
}

// NewEmailRenderer creates a renderer that resolves the logo with logos.
func NewEmailRenderer(logos LogoResolver) *EmailRenderer {
	return &EmailRenderer{logos: logos}
}

// Render builds the email for rec. logoURL overrides the configured logo when non-empty.
func (r *EmailRenderer) Render(rec *domain.LoanDisbursement, logoURL string) (domain.RenderedEmail, error) {
	data := templateData{
		CustomerName:            rec.CustomerName,
		ContractCode:            rec.ContractCode,
		DisbursementAmount:      utils.FormatCurrency(rec.DisbursementAmount),
		DisbursementAmountWords: utils.CapitalizeFirst(utils.ToVietnameseWords(rec.DisbursementAmount)),
		DisbursementDate:        rec.DisbursementDate.Format(),
		BankAccountNumber:       rec.BankAccountNumber,
		BankName:                rec.BankName,
		BeneficiaryName:         rec.BeneficiaryName,
		TotalLoanAmount:         utils.FormatCurrency(rec.TotalLoanAmount),
		LoanTermMonths:          rec.LoanTermMonths,
		LoanStartDate:           rec.LoanStartDate.Format(),
		LoanEndDate:             rec.LoanEndDate.Format(),
		DueDayEachMonth:         rec.DueDayEachMonth,
		LogoURL:                 r.logos.Resolve(logoURL),
	}

	var buf bytes.Buffer
	if err := disbursementTemplate.Execute(&buf, data); err != nil {
		return domain.RenderedEmail{}, fmt.Errorf("failed to render disbursement email: %w", err)
	}

	return domain.RenderedEmail{
		Subject: EmailSubject(rec.ContractCode),
		HTML:    strings.TrimSpace(buf.String()),
	}, nil
}
