package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"labtrack_backend/internals/features/samples/model"
)

const (
	StatusInfected = "NHIỄM"
	StatusClean    = "SẠCH"
)

type Severity struct {
	Level int
	Label string
}

var (
	severe = Severity{Level: 3, Label: "nặng"}
	medium = Severity{Level: 2, Label: "TB"}
	light  = Severity{Level: 1, Label: "nhẹ"}
)

// severityTable: kode tidak dikenal → light
var severityTable = map[string]Severity{
	model.MetricWSSV:         severe,
	model.MetricEHP:          severe,
	model.MetricEMS:          severe,
	model.MetricTPD:          medium,
	model.MetricKhuan:        medium,
	model.MetricMBV:          medium,
	model.MetricDIV1:         medium,
	model.MetricDangKhac:     light,
	model.MetricViKhuanViNam: light,
	model.MetricTamSoat:      light,
	model.MetricCLGan:        light,
}

func SeverityOf(metricCode string) Severity {
	if s, ok := severityTable[metricCode]; ok {
		return s
	}
	return light
}

type PositiveResult struct {
	MetricCode    string  `json:"metric_code"`
	MetricName    string  `json:"metric_name"`
	Value         float64 `json:"value"`
	Severity      int     `json:"severity"`
	SeverityLabel string  `json:"severityLabel"`
}

type Report struct {
	SampleID        uuid.UUID        `json:"sample_id"`
	SampleCode      string           `json:"sample_code"`
	Customer        string           `json:"customer"`
	KQChung         string           `json:"kq_chung"`
	PositiveCount   int              `json:"positive_count"`
	PositiveResults []PositiveResult `json:"positive_results"`
	Message         string           `json:"message"`
}

// BuildReport: murni, tanpa I/O. Positif bila nilai efektif > 0,
// diurutkan severity menurun (stabil).
func BuildReport(sample model.SampleModel, results []model.SampleResultModel) Report {
	positives := []PositiveResult{}
	for _, r := range results {
		v := r.EffectiveValue()
		if v <= 0 {
			continue
		}
		sev := SeverityOf(r.MetricCode)
		positives = append(positives, PositiveResult{
			MetricCode:    r.MetricCode,
			MetricName:    r.MetricName,
			Value:         v,
			Severity:      sev.Level,
			SeverityLabel: sev.Label,
		})
	}
	sort.SliceStable(positives, func(i, j int) bool {
		return positives[i].Severity > positives[j].Severity
	})

	kq := StatusClean
	if len(positives) > 0 {
		kq = StatusInfected
	}

	return Report{
		SampleID:        sample.ID,
		SampleCode:      sample.SampleCode,
		Customer:        sample.Customer,
		KQChung:         kq,
		PositiveCount:   len(positives),
		PositiveResults: positives,
		Message:         renderMessage(sample.SampleCode, sample.Customer, kq, positives),
	}
}

func renderMessage(code, customer, kq string, positives []PositiveResult) string {
	var b strings.Builder
	b.WriteString("Mẫu " + code + " - Khách hàng: " + customer + "\n")
	b.WriteString("Kết quả tổng hợp: " + kq + "\n")

	if len(positives) == 0 {
		b.WriteString("\nTất cả các chỉ số đều âm tính.")
		return b.String()
	}

	b.WriteString("\nCác chỉ số dương tính:\n")
	for _, p := range positives {
		b.WriteString("- " + p.MetricName + " (" + p.MetricCode + "): " +
			FormatNumber(p.Value) + " (mức độ: " + p.SeverityLabel + ")\n")
	}
	return b.String()
}

// FormatNumber: tanpa trailing zero (5 → "5", 1.5 → "1.5")
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
