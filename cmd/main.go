// cmd/main.go
package main

import (
	"go-booking-api/app"
)

// @title           Booking API
// @version         1.0
// @description     Appointment booking backend: auth, slots, appointments.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
