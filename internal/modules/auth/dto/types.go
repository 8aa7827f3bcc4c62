package dto

type SignupInput struct {
	Email    string
	Name     string
	Profile  string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserOutput struct {
	ID      int
	Email   string
	Name    string
	Profile string
}

type SessionOutput struct {
	Authenticated bool
	User          UserOutput
}
