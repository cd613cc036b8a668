package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// ErrInvalidReport 报告输入缺少必填字段
var ErrInvalidReport = errors.New("invalid report input")

// Percent 百分比，兼容数字与 "87.5" / "87.5%" 形式的字符串
type Percent float64

// UnmarshalJSON 解析数字或数字字符串
func (p *Percent) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid confidence %q", s)
		}
		*p = Percent(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Percent(v)
	return nil
}

// ReportData 生成报告所需的分析数据
type ReportData struct {
	ID              string   `json:"id" binding:"required"`
	Condition       string   `json:"condition" binding:"required"`
	Confidence      *Percent `json:"confidence" binding:"required"`
	RiskLevel       string   `json:"riskLevel" binding:"required"`
	Recommendations string   `json:"recommendations" binding:"required"`
}

// ConfidenceValue 置信度数值，未提供时为 0
func (d ReportData) ConfidenceValue() float64 {
	if d.Confidence == nil {
		return 0
	}
	return float64(*d.Confidence)
}

// PatientInfo 患者信息
type PatientInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// Validate 检查报告必填字段
func Validate(data ReportData, patient PatientInfo) error {
	var missing []string
	if strings.TrimSpace(data.ID) == "" {
		missing = append(missing, "analysisData.id")
	}
	if strings.TrimSpace(data.Condition) == "" {
		missing = append(missing, "analysisData.condition")
	}
	if data.Confidence == nil {
		missing = append(missing, "analysisData.confidence")
	} else if c := float64(*data.Confidence); c < 0 || c > 100 {
		return fmt.Errorf("%w: confidence must be within [0,100]", ErrInvalidReport)
	}
	if strings.TrimSpace(data.RiskLevel) == "" {
		missing = append(missing, "analysisData.riskLevel")
	}
	if strings.TrimSpace(data.Recommendations) == "" {
		missing = append(missing, "analysisData.recommendations")
	}
	if strings.TrimSpace(patient.Name) == "" {
		missing = append(missing, "patientInfo.name")
	}
	if strings.TrimSpace(patient.Email) == "" {
		missing = append(missing, "patientInfo.email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidReport, strings.Join(missing, ", "))
	}
	return nil
}

const reportDisclaimer = "DISCLAIMER: This report is generated by an automated image analysis system and is " +
	"intended for informational purposes only. It is not a medical diagnosis and must not replace " +
	"consultation with a qualified healthcare professional. If you have concerns about a skin lesion, " +
	"please see a dermatologist."

// ReportGenerator 生成 PDF 报告到临时目录
// 每次调用都新建 PDF 文档，不在请求间共享
type ReportGenerator struct {
	dir   string
	brand string
	now   func() time.Time
}

// NewReportGenerator 创建报告生成器，dir 为空时使用系统临时目录
func NewReportGenerator(dir, brand string) *ReportGenerator {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ReportGenerator{dir: dir, brand: brand, now: time.Now}
}

// Generate 生成报告并返回文件路径；失败时不会留下文件
func (g *ReportGenerator) Generate(data ReportData, patient PatientInfo) (string, error) {
	if err := Validate(data, patient); err != nil {
		return "", err
	}

	// 文件名带随机部分，避免并发请求在同一毫秒内冲突
	path := filepath.Join(g.dir, fmt.Sprintf("skin-report-%s.pdf", uuid.NewString()))

	pdf := g.build(data, patient)
	if err := pdf.OutputFileAndClose(path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("生成PDF报告失败: %w", err)
	}
	return path, nil
}

func (g *ReportGenerator) build(data ReportData, patient PatientInfo) *fpdf.Fpdf {
	now := g.now()

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Skin Analysis Report", true)
	pdf.SetAuthor(g.brand, true)
	pdf.SetCreationDate(now)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 40)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-35)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(110, 110, 110)
		pdf.MultiCell(0, 3.5, reportDisclaimer, "", "J", false)
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// 页眉：品牌与日期
	pdf.SetFillColor(37, 99, 235)
	pdf.Rect(0, 0, 210, 32, "F")
	pdf.SetY(10)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 8, tr(g.brand), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Skin Analysis Report  |  "+now.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.SetY(42)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(29, 78, 216)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.Ln(3)
		pdf.SetTextColor(40, 40, 40)
	}
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(value), "", "L", false)
	}

	section("Patient Information")
	row("Name:", patient.Name)
	row("Email:", patient.Email)
	row("Report ID:", data.ID)
	pdf.Ln(6)

	section("Analysis Results")
	row("Condition:", data.Condition)
	row("Confidence:", fmt.Sprintf("%.2f%%", data.ConfidenceValue()))
	row("Risk Level:", data.RiskLevel)
	pdf.Ln(6)

	section("Recommendations")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(strings.TrimSpace(data.Recommendations)), "", "L", false)

	return pdf
}
