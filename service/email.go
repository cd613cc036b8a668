package service

import (
	"errors"
	"fmt"
	"html"

	"skinsight/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("email service is disabled")

// mailDialer 发送邮件的最小接口，gomail.Dialer 实现了它
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg    *config.EmailConfig
	dialer mailDialer
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendReport 发送带 PDF 附件的分析报告邮件，发送失败时返回错误
func (s *EmailService) SendReport(toEmail, reportPath string, data ReportData, patient PatientInfo) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Skin Analysis Report")
	m.SetBody("text/html", s.generateReportEmailBody(data, patient))
	m.Attach(reportPath, gomail.Rename(fmt.Sprintf("skin-analysis-report-%s.pdf", data.ID)))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// generateReportEmailBody 生成报告邮件内容
func (s *EmailService) generateReportEmailBody(data ReportData, patient PatientInfo) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .result { background: #eff6ff; border-left: 4px solid #2563eb; padding: 15px 20px; margin: 20px 0; border-radius: 4px; }
        .result p { margin: 0 0 8px; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Skin Analysis Report</h1>
        </div>
        <div class="content">
            <p>Dear <strong>%s</strong>,</p>
            <p>Your skin analysis report is ready and attached to this email as a PDF.</p>
            <div class="result">
                <p><strong>Condition:</strong> %s</p>
                <p><strong>Confidence:</strong> %.2f%%</p>
                <p><strong>Risk Level:</strong> %s</p>
            </div>
            <div class="warning">
                <p>This analysis is not a medical diagnosis. Please consult a dermatologist for a professional evaluation.</p>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent automatically, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(patient.Name), html.EscapeString(data.Condition), data.ConfidenceValue(), html.EscapeString(data.RiskLevel))
}
