package models

type AnalyzeRequest struct {
	URL      string   `json:"url,omitempty"`
	VideoID  string   `json:"video_id,omitempty"`
	Comments []string `json:"comments,omitempty"`
}

type AnalyzeResponse struct {
	TotalComments    int            `json:"Total Comments"`
	SentimentSummary map[string]int `json:"Sentiment Summary"`
	CommentSummary   string         `json:"Comment Summary,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse maps an AnalysisResult onto the public JSON shape.
func (r AnalysisResult) ToResponse() AnalyzeResponse {
	summary := make(map[string]int, len(r.SentimentTally))
	for label, count := range r.SentimentTally {
		summary[string(label)] = count
	}
	return AnalyzeResponse{
		TotalComments:    r.TotalComments,
		SentimentSummary: summary,
		CommentSummary:   r.Summary,
	}
}
