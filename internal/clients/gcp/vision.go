package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/reuniteapp/reunite-backend/internal/pkg/ctxutil"
	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/verification"
)

// Vision is the optional third-party photo analysis collaborator. It is
// best-effort: callers treat any error as upstream degradation, not a
// verification failure.
type Vision interface {
	AnalyzePhoto(ctx context.Context, img []byte) (*verification.PhotoSignal, error)
	Close() error
}

type visionService struct {
	log          *logger.Logger
	visionClient *vision.ImageAnnotatorClient
	callTimeout  time.Duration
}

func NewVision(log *logger.Logger) (Vision, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Vision")

	ctx := context.Background()
	var opts []option.ClientOption
	if creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	vClient, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	return &visionService{
		log:          slog,
		visionClient: vClient,
		callTimeout:  10 * time.Second,
	}, nil
}

func (s *visionService) Close() error {
	if s == nil || s.visionClient == nil {
		return nil
	}
	return s.visionClient.Close()
}

func (s *visionService) AnalyzePhoto(ctx context.Context, img []byte) (*verification.PhotoSignal, error) {
	if len(img) == 0 {
		return &verification.PhotoSignal{}, nil
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_FACE_DETECTION, MaxResults: 10},
			{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
		},
	}
	resp, err := s.visionClient.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return nil, fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("vision annotate: empty response")
	}
	annotated := resp.Responses[0]
	if annotated.Error != nil {
		return nil, fmt.Errorf("vision annotate: %s", annotated.Error.Message)
	}

	signal := &verification.PhotoSignal{Analyzed: true}
	signal.FaceCount = len(annotated.FaceAnnotations)
	if ss := annotated.SafeSearchAnnotation; ss != nil {
		signal.SpoofLikely = ss.Spoof >= visionpb.Likelihood_LIKELY
	}

	s.log.Debug("Photo analyzed", "faces", signal.FaceCount, "spoof_likely", signal.SpoofLikely)
	return signal, nil
}
