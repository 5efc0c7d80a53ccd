// Package awslambda applies the instrument request lifecycle to AWS Lambda
// functions behind an API Gateway HTTP API.
//
//	w := instrument.NewWrapper(instrument.Config{})
//	lambda.Start(awslambda.Wrap(w, handle))
package awslambda
