package polish

import "time"

type polishRequest struct {
	Name       string `json:"name"`
	Education  string `json:"education"`
	Experience string `json:"experience"`
	Skills     string `json:"skills"`
	Email      string `json:"email"`
}

func (r polishRequest) fields() ResumeFields {
	return ResumeFields{
		Name:       r.Name,
		Education:  r.Education,
		Experience: r.Experience,
		Skills:     r.Skills,
		Email:      r.Email,
	}
}

type polishResponse struct {
	PolishedCV string    `json:"polished_cv"`
	SessionID  string    `json:"session_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}
