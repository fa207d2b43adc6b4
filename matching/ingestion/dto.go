package ingestion

import "github.com/Abraxas-365/resumatch/pkg/kernel"

type ExtractResponse struct {
	Text       string            `json:"text"`
	Message    string            `json:"message"`
	AnalysisID kernel.AnalysisID `json:"analysisId"`
}

type ExtractOnlyResponse struct {
	Text string `json:"text"`
}
