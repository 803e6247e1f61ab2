package model

// KeyRecord is a stored signing identity. P, Q and G are the DSA domain
// parameters, X the private key and Y the public key, all base-10 encoded.
type KeyRecord struct {
	Name string
	P    string
	Q    string
	G    string
	X    string
	Y    string
}
