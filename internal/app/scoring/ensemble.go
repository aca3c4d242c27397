package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Nomes dos arquivos de artefato esperados no diretório de modelos
const (
	scalersFile    = "scalers.json"
	logisticFile   = "logistic_regression_model.json"
	kneighborsFile = "knears_neighbors_model.json"
	svcFile        = "svc_model.json"
	treeFile       = "decision_tree_model.json"
	kerasFile      = "undersample_model.json"
)

// Ensemble reúne os cinco modelos do serviço e os escaladores de entrada
type Ensemble struct {
	scalers    Scalers
	logistic   *LogisticModel
	kneighbors *KNeighborsModel
	svc        *SVCModel
	tree       *TreeModel
	keras      *KerasModel

	logger  *zap.Logger
	metrics *metrics.PipelineMetrics
	tracer  trace.Tracer
}

// LoadEnsemble carrega todos os artefatos do diretório informado. Artefato
// ausente ou inválido é erro fatal de inicialização.
func LoadEnsemble(dir string, pipelineMetrics *metrics.PipelineMetrics, logger *zap.Logger) (*Ensemble, error) {
	e := &Ensemble{
		logistic:   &LogisticModel{},
		kneighbors: &KNeighborsModel{},
		svc:        &SVCModel{},
		tree:       &TreeModel{},
		keras:      &KerasModel{},
		logger:     logger,
		metrics:    pipelineMetrics,
		tracer:     otel.GetTracerProvider().Tracer("fraud-api.scoring"),
	}

	artifacts := []struct {
		file     string
		dest     interface{}
		validate func() error
	}{
		{scalersFile, &e.scalers, func() error { return nil }},
		{logisticFile, e.logistic, e.logistic.validate},
		{kneighborsFile, e.kneighbors, e.kneighbors.validate},
		{svcFile, e.svc, e.svc.validate},
		{treeFile, e.tree, e.tree.validate},
		{kerasFile, e.keras, e.keras.validate},
	}

	for _, artifact := range artifacts {
		path := filepath.Join(dir, artifact.file)
		if err := loadArtifact(path, artifact.dest); err != nil {
			return nil, err
		}
		if err := artifact.validate(); err != nil {
			return nil, fmt.Errorf("artefato %s inválido: %w", artifact.file, err)
		}
	}

	logger.Info("Modelos carregados com sucesso",
		zap.String("dir", dir),
		zap.Int("kneighbors_points", len(e.kneighbors.Points)),
		zap.Int("tree_nodes", len(e.tree.Nodes)),
		zap.Int("keras_layers", len(e.keras.Layers)))

	return e, nil
}

// loadArtifact decodifica um artefato JSON do disco
func loadArtifact(path string, dest interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("falha ao abrir artefato de modelo %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(dest); err != nil {
		return fmt.Errorf("falha ao decodificar artefato de modelo %s: %w", path, err)
	}
	return nil
}

// Score aplica o ensemble completo a uma transação
func (e *Ensemble) Score(ctx context.Context, txn *model.Transaction) (*model.PredictionSet, error) {
	_, span := e.tracer.Start(
		ctx,
		"Ensemble.Score",
		trace.WithAttributes(attribute.String("transaction.id", txn.ID)),
	)
	defer span.End()

	features := FeatureVector(txn, e.scalers)

	predictions := &model.PredictionSet{
		Logistic:   e.timed("logistic", e.logistic, features),
		KNeighbors: e.timed("kneighbors", e.kneighbors, features),
		SVC:        e.timed("svc", e.svc, features),
		Tree:       e.timed("tree", e.tree, features),
		Keras:      e.timed("keras", e.keras, features),
	}

	e.logger.Debug("Predições geradas",
		zap.String("transaction_id", txn.ID),
		zap.Float64("kneighbors_fraud", predictions.KNeighbors.Fraud),
		zap.Float64("keras_fraud", predictions.Keras.Fraud))

	return predictions, nil
}

// timed executa um classificador medindo a duração para as métricas
func (e *Ensemble) timed(name string, clf Classifier, features []float64) model.ModelScore {
	start := time.Now()
	score := clf.Predict(features)
	if e.metrics != nil {
		e.metrics.ScoringObserved(name, time.Since(start))
	}
	return score
}
