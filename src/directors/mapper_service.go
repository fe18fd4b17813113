// Package directors exposes the mapping engine to the rest of a program: type registration,
// document conversion, BSON bytes and index keys.
package directors

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"docmapper/src/engine"
	hashindex "docmapper/src/hash_index"
	"docmapper/src/helpers"
	"docmapper/src/models"
	"docmapper/src/schema"
	"docmapper/src/settings"
)

type MapperService struct {
	instanceID string
	engine     *engine.Engine
	keys       *hashindex.KeyService
	logger     *zap.SugaredLogger
}

// NewMapperService wires an engine from args. A nil args uses the process settings and a nil
// logger discards output.
func NewMapperService(args *settings.Arguments, logger *zap.SugaredLogger) *MapperService {
	if args == nil {
		args = settings.GetSettings()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	id := helpers.GenerateUUID()
	logger = logger.With("mapper", id)

	return &MapperService{
		instanceID: id,
		engine:     engine.NewEngine(args, logger),
		keys:       hashindex.NewKeyService(logger),
		logger:     logger,
	}
}

func (s *MapperService) InstanceID() string {
	return s.instanceID
}

// Engine gives access to the underlying engine, to plug in identity providers or resolvers.
func (s *MapperService) Engine() *engine.Engine {
	return s.engine
}

// RegisterType registers the struct type of sample, which may be a value, a pointer or a
// reflect.Type. builders are only needed for types that do not declare DocBuilder.
func (s *MapperService) RegisterType(sample interface{}, builders ...schema.Builder) (*models.TypeDescriptor, error) {
	return s.engine.Registry().Register(typeOf(sample), builders...)
}

func (s *MapperService) ToDocument(obj interface{}) (bson.D, error) {
	return s.engine.ToDocument(obj)
}

// FromDocument returns a pointer to a new instance of the type of sample.
func (s *MapperService) FromDocument(doc bson.D, sample interface{}) (interface{}, error) {
	return s.engine.FromDocument(doc, typeOf(sample))
}

func (s *MapperService) GetField(sample interface{}, name string) (*models.FieldDescriptor, error) {
	return s.engine.Registry().GetField(typeOf(sample), name)
}

func (s *MapperService) IsValidType(field *models.FieldDescriptor) bool {
	return s.engine.IsValidType(field)
}

func (s *MapperService) GetIndexes(sample interface{}) ([]models.IndexReference, error) {
	return s.engine.Registry().GetIndexes(typeOf(sample))
}

// Marshal converts obj to a document and serializes it to BSON.
func (s *MapperService) Marshal(obj interface{}) ([]byte, error) {
	doc, err := s.engine.ToDocument(obj)
	if err != nil {
		return nil, err
	}
	return helpers.EncodeBSON(doc)
}

// Unmarshal parses BSON bytes and builds a new instance of the type of sample from them.
func (s *MapperService) Unmarshal(data []byte, sample interface{}) (interface{}, error) {
	doc, err := helpers.DecodeBSON(data)
	if err != nil {
		return nil, err
	}
	return s.engine.FromDocument(doc, typeOf(sample))
}

// ToExtJSON renders obj as relaxed Extended JSON.
func (s *MapperService) ToExtJSON(obj interface{}) (string, error) {
	doc, err := s.engine.ToDocument(obj)
	if err != nil {
		return "", err
	}
	return helpers.ToExtJSON(doc, false)
}

// IndexKeys converts obj and returns the key it contributes to every index its type declares.
func (s *MapperService) IndexKeys(obj interface{}) ([]hashindex.IndexKey, error) {
	doc, err := s.engine.ToDocument(obj)
	if err != nil {
		return nil, err
	}
	indexes, err := s.engine.Registry().GetIndexes(typeOf(obj))
	if err != nil {
		return nil, err
	}
	return s.keys.BuildKeys(doc, indexes)
}

// Decode builds a *T from doc.
func Decode[T any](s *MapperService, doc bson.D) (*T, error) {
	out, err := s.engine.FromDocument(doc, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	v, ok := out.(*T)
	if !ok {
		return nil, fmt.Errorf("decoded %T, want *%v", out, reflect.TypeOf((*T)(nil)).Elem())
	}
	return v, nil
}

func typeOf(sample interface{}) reflect.Type {
	if t, ok := sample.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(sample)
}
