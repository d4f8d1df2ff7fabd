package dto

type AnalyzeRequest struct {
	PhotoBase64 string `json:"photoBase64"`
}

type AnalyzeResponse struct {
	SuggestedName   string `json:"suggestedName"`
	DetectedType    string `json:"detectedType"`
	Characteristics string `json:"characteristics"`
	Observations    string `json:"observations"`
}
