package compute

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// EC2Options configures the EC2 client. Credentials come from the default
// AWS chain.
type EC2Options struct {
	Region       string
	BaseEndpoint string
}

type ec2API interface {
	StartInstances(ctx context.Context, in *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newEC2ClientFromConfig = func(cfg aws.Config, optFns ...func(*ec2.Options)) ec2API {
		return ec2.NewFromConfig(cfg, optFns...)
	}
)

// EC2Dispatcher starts a stopped EC2 instance.
type EC2Dispatcher struct {
	client ec2API
}

func NewEC2Dispatcher(ctx context.Context, o EC2Options) (*EC2Dispatcher, error) {
	cfg, err := loadDefaultAWSConfig(ctx, config.WithRegion(o.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newEC2ClientFromConfig(cfg, func(opts *ec2.Options) {
		if o.BaseEndpoint != "" {
			opts.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
	})
	return &EC2Dispatcher{client: client}, nil
}

func (d *EC2Dispatcher) Start(ctx context.Context, targetID string) error {
	_, err := d.client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{targetID},
	})
	if err != nil {
		return fmt.Errorf("start instance %s: %w", targetID, err)
	}
	return nil
}
