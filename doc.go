// Package sendblue is a client for the Sendblue messaging API: sending iMessage
// and SMS messages to single recipients or groups, listing message history,
// evaluating whether a number can receive iMessage and sending typing
// indicators.
//
// Requests are assembled with builders that validate required fields once,
// in Build:
//
//	to, err := phonenumber.Parse("+14155552671", "")
//	if err != nil {
//	    return err
//	}
//	msg, err := sendblue.NewMessageBuilder().To(to).Content("Hello").Build()
//	if err != nil {
//	    return err
//	}
//
//	client, err := sendblue.New(apiKey, apiSecret)
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Send(ctx, msg)
//
// Every failure is an *Error whose Kind is one of KindValidation,
// KindTransport, KindAPI or KindDecode. Use errors.Is with ErrValidation,
// ErrTransport, ErrAPI or ErrDecode, or errors.As for the status code and body.
//
// A Client holds only immutable configuration and may be shared between
// goroutines. It performs exactly one HTTP request per call and never retries;
// cancellation and deadlines come from the context passed to each method.
package sendblue
