package facematch

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
)

// RekognitionMatcher compares faces through AWS Rekognition CompareFaces.
type RekognitionMatcher struct {
	client              *rekognition.Client
	similarityThreshold float32
	callTimeout         time.Duration
}

func NewRekognitionMatcher(ctx context.Context, region, accessKeyID, secretAccessKey string, similarityThreshold float32, callTimeout time.Duration) (*RekognitionMatcher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &RekognitionMatcher{
		client:              rekognition.NewFromConfig(cfg),
		similarityThreshold: similarityThreshold,
		callTimeout:         callTimeout,
	}, nil
}

func (m *RekognitionMatcher) Compare(ctx context.Context, reference []byte, capture []byte) (identity.MatchResult, error) {
	if len(reference) == 0 || len(capture) == 0 {
		return identity.MatchResult{}, fmt.Errorf("%w: empty image", identity.ErrFaceProcessing)
	}

	ctx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()

	out, err := m.client.CompareFaces(ctx, &rekognition.CompareFacesInput{
		SourceImage:         &types.Image{Bytes: reference},
		TargetImage:         &types.Image{Bytes: capture},
		SimilarityThreshold: aws.Float32(m.similarityThreshold),
	})
	if err != nil {
		// Rekognition rejects inputs without a detectable face with an
		// InvalidParameterException, which surfaces here alongside
		// transport failures. Either way the capture was not usable.
		return identity.MatchResult{}, fmt.Errorf("%w: %v", identity.ErrFaceProcessing, err)
	}

	if len(out.FaceMatches) == 0 {
		return identity.MatchResult{Matched: false}, nil
	}

	best := out.FaceMatches[0]
	result := identity.MatchResult{Matched: true}
	if best.Similarity != nil {
		result.Score = float64(*best.Similarity)
	}
	return result, nil
}
