package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UtilisateurResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nom      string `json:"nom"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	TokenType    string              `json:"token_type"`
	ExpiresIn    int                 `json:"expires_in"`
	User         UtilisateurResponse `json:"user"`
}

type CreateUtilisateurRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Nom      string `json:"nom"      validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"     validate:"required,oneof=caissier administrateur"`
}
