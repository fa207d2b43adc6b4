package analysis

import "github.com/Abraxas-365/resumatch/pkg/kernel"

// DocumentInput is the client-supplied side of a save request
type DocumentInput struct {
	Text     string         `json:"text"`
	FileURL  kernel.FileURL `json:"fileUrl,omitempty"`
	FileType string         `json:"fileType,omitempty"`
	FileName string         `json:"fileName,omitempty"`
}

func (d DocumentInput) ToDocument() Document {
	return Document{
		Text:     d.Text,
		FileURL:  d.FileURL,
		FileType: d.FileType,
		FileName: d.FileName,
	}
}

type SaveAnalysisRequest struct {
	Resume         DocumentInput `json:"resume"`
	JobDescription DocumentInput `json:"jobDescription"`
}

type SaveAnalysisResponse struct {
	Message    string            `json:"message"`
	AnalysisID kernel.AnalysisID `json:"analysisId"`
}

type ListAnalysesResponse struct {
	Analyses []Analysis `json:"analyses"`
}

// AnalyzeRequest falls back to the current pair when both texts are empty
type AnalyzeRequest struct {
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
}

type AnalyzeResponse struct {
	Result     Result `json:"result"`
	MatchScore int    `json:"matchScore"`
}

type RoadmapRequest struct {
	MissingSkills []string `json:"missingSkills"`
}

type RoadmapResponse struct {
	Plan LearningPlan `json:"plan"`
}

type CurrentResponse struct {
	Current *Current `json:"current"`
}

// Envelope is the {success, data} shape of the /api/analysis routes
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// CreatedEvent is published after an analysis is appended
type CreatedEvent struct {
	AnalysisID kernel.AnalysisID `json:"analysisId"`
	UserID     kernel.UserID     `json:"userId"`
	HasResume  bool              `json:"hasResume"`
	HasJD      bool              `json:"hasJobDescription"`
}
