// Package marketapi speaks the auction backend's HTTP contract. It owns the
// wire DTOs and the transport policy; domain normalization lives in core.
package marketapi

// CreateAuctionRequest is the POST /auctions body. Duration is in seconds;
// callers authoring in days must multiply by 86400 before building this.
type CreateAuctionRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	StartingPrice float64 `json:"startingPrice"`
	Duration      int64   `json:"duration"`
	SellerAddress string  `json:"sellerAddress"`
	Category      string  `json:"category"`
}

// MessageResponse is the backend's minimal confirmation shape. Endpoints
// that return a bare text body are wrapped into this same shape, so callers
// never see a parse failure for a 200 response.
type MessageResponse struct {
	Message string `json:"message"`
}

// User is the backend's user profile.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// LoginRequest is the POST /users/login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /users/register body.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse is the shared login/register result. Success is reported in
// the body, not via HTTP status.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}
