package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/obelix/internal/config"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	return &cobra.Command{
		Use:              "lambda",
		Short:            "Serve the telemetry endpoints from AWS Lambda",
		PersistentPreRunE: forceMode(config.ModeLambda),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLambda(cmd)
		},
	}
}

func runLambda(cmd *cobra.Command) error {
	rtm := newRuntime()
	logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
	lambda.StartWithOptions(rtm.HandleEvent,
		lambda.WithContext(cmd.Context()))
	return nil
}
