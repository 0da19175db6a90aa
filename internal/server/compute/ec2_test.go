package compute

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	in  *ec2.StartInstancesInput
	err error
}

func (f *fakeEC2) StartInstances(_ context.Context, in *ec2.StartInstancesInput, _ ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &ec2.StartInstancesOutput{}, nil
}

func stubEC2(t *testing.T, fake *fakeEC2) *ec2.Options {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNew := newEC2ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newEC2ClientFromConfig = origNew
	})

	applied := &ec2.Options{}
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	newEC2ClientFromConfig = func(_ aws.Config, optFns ...func(*ec2.Options)) ec2API {
		for _, fn := range optFns {
			fn(applied)
		}
		return fake
	}
	return applied
}

func TestEC2Dispatcher_StartsSingleInstance(t *testing.T) {
	fake := &fakeEC2{}
	opts := stubEC2(t, fake)

	d, err := NewEC2Dispatcher(context.Background(), EC2Options{Region: "us-east-1"})
	require.NoError(t, err)
	assert.Nil(t, opts.BaseEndpoint)

	require.NoError(t, d.Start(context.Background(), "i-0abc"))
	require.NotNil(t, fake.in)
	assert.Equal(t, []string{"i-0abc"}, fake.in.InstanceIds)
}

func TestEC2Dispatcher_CustomEndpoint(t *testing.T) {
	opts := stubEC2(t, &fakeEC2{})

	_, err := NewEC2Dispatcher(context.Background(), EC2Options{Region: "us-east-1", BaseEndpoint: "http://localstack:4566"})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://localstack:4566", *opts.BaseEndpoint)
}

func TestEC2Dispatcher_StartError(t *testing.T) {
	stubEC2(t, &fakeEC2{err: errors.New("IncorrectInstanceState")})

	d, err := NewEC2Dispatcher(context.Background(), EC2Options{})
	require.NoError(t, err)

	err = d.Start(context.Background(), "i-0abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start instance i-0abc")
}

func TestNewEC2Dispatcher_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewEC2Dispatcher(context.Background(), EC2Options{})
	require.ErrorContains(t, err, "load aws config")
}
