package domain

// TokenPair is what the auth endpoints return: a short-lived access token,
// a refresh token, and the device slot the refresh chain belongs to. Clients
// present the device id on later credential logins to reuse the slot.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	DeviceID     int
}
