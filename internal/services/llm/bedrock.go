package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/rs/zerolog"
)

// BedrockConfig carries the credentials and model id for the Bedrock backend.
type BedrockConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	ModelID         string
}

type bedrockAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput,
		optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// ClientBedrock completes prompts through the AWS Bedrock Runtime Converse API.
type ClientBedrock struct {
	api     bedrockAPI
	modelID string
	logger  zerolog.Logger
}

func NewBedrockClient(ctx context.Context, cfg BedrockConfig, logger zerolog.Logger) (*ClientBedrock, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("bedrock: AWS credentials not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load config: %w", err)
	}

	return &ClientBedrock{
		api:     bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		logger:  logger,
	}, nil
}

func (c *ClientBedrock) Name() string { return "Bedrock" }

func (c *ClientBedrock) Complete(ctx context.Context, system, user string) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: user},
				},
			},
		},
	}
	if system != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		}
	}

	out, err := c.api.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("bedrock: converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("bedrock: unexpected output type")
	}

	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			return text.Value, nil
		}
	}
	return "", errors.New("bedrock: no text block in response")
}
