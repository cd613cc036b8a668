package service

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// ReportState 报告任务所处阶段
type ReportState int

const (
	ReportGenerating ReportState = iota
	ReportSending
	ReportCleaningUp
	ReportDone
	ReportFailed
)

func (s ReportState) String() string {
	switch s {
	case ReportGenerating:
		return "generating"
	case ReportSending:
		return "sending"
	case ReportCleaningUp:
		return "cleaning_up"
	case ReportDone:
		return "done"
	default:
		return "failed"
	}
}

// ReportError 报告任务失败，State 为出错时所处阶段
type ReportError struct {
	State ReportState
	Err   error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report %s failed: %v", e.State, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

type reportGenerator interface {
	Generate(data ReportData, patient PatientInfo) (string, error)
}

type reportMailer interface {
	SendReport(toEmail, reportPath string, data ReportData, patient PatientInfo) error
}

// ReportService 串联报告生成、发送与清理
type ReportService struct {
	generator reportGenerator
	mailer    reportMailer
	remove    func(string) error
	log       *zap.Logger
}

// NewReportService 创建报告服务
func NewReportService(generator reportGenerator, mailer reportMailer, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{
		generator: generator,
		mailer:    mailer,
		remove:    os.Remove,
		log:       log,
	}
}

// GenerateAndSend 生成报告 -> 发送邮件 -> 删除临时文件
// 只要生成成功，无论发送结果如何都会删除临时文件；仅在生成与发送都成功时返回 nil
func (s *ReportService) GenerateAndSend(data ReportData, patient PatientInfo) error {
	log := s.log.With(zap.String("analysis_id", data.ID))

	log.Debug("报告任务状态", zap.Stringer("state", ReportGenerating))
	path, err := s.generator.Generate(data, patient)
	if err != nil {
		log.Error("生成报告失败", zap.Stringer("state", ReportFailed), zap.Error(err))
		return &ReportError{State: ReportGenerating, Err: err}
	}

	log.Debug("报告任务状态", zap.Stringer("state", ReportSending), zap.String("path", path))
	sendErr := s.mailer.SendReport(patient.Email, path, data, patient)
	if sendErr != nil {
		log.Error("发送报告邮件失败", zap.Stringer("state", ReportFailed), zap.Error(sendErr))
	}

	log.Debug("报告任务状态", zap.Stringer("state", ReportCleaningUp))
	if err := s.remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("删除临时报告文件失败", zap.String("path", path), zap.Error(err))
	}

	if sendErr != nil {
		return &ReportError{State: ReportSending, Err: sendErr}
	}

	log.Info("报告已发送", zap.Stringer("state", ReportDone))
	return nil
}
