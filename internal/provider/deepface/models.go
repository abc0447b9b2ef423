package deepface

// RepresentRequest for POST /represent
type RepresentRequest struct {
	Img              string `json:"img"` // data URI, base64 encoded
	Model            string `json:"model_name"`
	Detector         string `json:"detector_backend"`
	EnforceDetection bool   `json:"enforce_detection"`
}

// RepresentResponse from POST /represent
type RepresentResponse struct {
	Results []RepresentResult `json:"results"`
}

type RepresentResult struct {
	FacialArea FacialArea `json:"facial_area"`
	// FaceConfidence is reported by newer DeepFace releases only
	FaceConfidence *float64 `json:"face_confidence,omitempty"`
}

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
