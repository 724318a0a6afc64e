package entity

import (
	"context"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (r *CreateUserRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Name == "" {
		problems["Name"] = append(problems["Name"], "Name is required")
	}
	if r.Email == "" {
		problems["Email"] = append(problems["Email"], "Email is required")
	}

	if r.Username == "" {
		problems["Username"] = append(problems["Username"], "Username is required")
	}

	if len(r.Username) > 16 {
		problems["Username"] = append(problems["Username"], "User name is too long")
	}

	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	if len([]byte(r.Password)) > 72 {
		problems["Password"] = append(problems["Password"], "Password length should not exceed 72 bytes")
	}

	return problems
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (r *SignInRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Email == "" && r.Username == "" {
		problems["Email/Username"] = append(problems["Email/Username"], "Either Email or Username is required")
	}

	if r.Email != "" && !emailRegex.MatchString(r.Email) {
		problems["Email"] = append(problems["Email"], "Invalid email format")
	}

	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	return problems
}

// SyncIdentityRequest upserts a profile from an external identity source.
type SyncIdentityRequest struct {
	Provider  string `json:"provider"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

func (r *SyncIdentityRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if !Provider(r.Provider).Valid() {
		problems["Provider"] = append(problems["Provider"], "Unknown identity provider")
	}

	if r.Email == "" || !emailRegex.MatchString(r.Email) {
		problems["Email"] = append(problems["Email"], "Valid email is required")
	}

	return problems
}

// UpdateProfileRequest carries a partial onboarding update. Quiz answers and
// meme reactions are merged into the stored profile; ProfileComplete is only
// applied when explicitly present.
type UpdateProfileRequest struct {
	QuizAnswers     QuizAnswers   `json:"quizAnswers"`
	MemeReactions   MemeReactions `json:"memeReactions"`
	ProfileComplete *bool         `json:"profileComplete"`
}

func (r *UpdateProfileRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	for _, answer := range r.QuizAnswers {
		if err := answer.Validate(); err != nil {
			problems["QuizAnswers"] = append(problems["QuizAnswers"], err.Error())
		}
	}

	for _, reaction := range r.MemeReactions {
		if err := reaction.Validate(); err != nil {
			problems["MemeReactions"] = append(problems["MemeReactions"], err.Error())
		}
	}

	return problems
}

type MatchGetRequest struct {
	Limit int `json:"limit"`
}
