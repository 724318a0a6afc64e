package entity

type SignUpResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type SyncIdentityResponse struct {
	Profile *Profile `json:"profile"`
	Token   string   `json:"token"`
}

type MatchListResponse struct {
	Matches []MatchResult `json:"matches"`
}

type RelationshipStateResponse struct {
	RelationshipState
	SentProfiles     []Profile `json:"sentProfiles,omitempty"`
	IncomingProfiles []Profile `json:"incomingProfiles,omitempty"`
	MutualProfiles   []Profile `json:"mutualProfiles,omitempty"`
}
