package formaterror

import "strings"

// FormatError maps raw store constraint violations to messages safe to show
// the client.
func FormatError(err string) map[string]string {
	errorMessages := make(map[string]string)

	if strings.Contains(err, "username") {
		errorMessages["Taken_username"] = "Username is already taken"
	}
	if strings.Contains(err, "email") {
		errorMessages["Taken_email"] = "Email is already taken"
	}
	if strings.Contains(err, "slug") {
		errorMessages["Taken_slug"] = "Slug is already taken"
	}
	if strings.Contains(err, "hashedPassword") ||
		strings.Contains(err, "hashed password is not the hash of the given password") {
		errorMessages["Incorrect_password"] = "Incorrect password"
	}
	if strings.Contains(err, "record not found") {
		errorMessages["Not_found"] = "Record not found"
	}
	if len(errorMessages) == 0 {
		errorMessages["Incorrect_details"] = "Incorrect details"
	}
	return errorMessages
}
