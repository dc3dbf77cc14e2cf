package transport

// GreetingResponse is the payload for the hello endpoint. It is returned as
// a bare object, not wrapped in the standard success envelope.
type GreetingResponse struct {
	ClientIP string `json:"client_ip"`
	Location string `json:"location"`
	Greeting string `json:"greeting"`
}
