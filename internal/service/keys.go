package service

import (
	"VoiceLedger/internal/crypto"
	"VoiceLedger/internal/model"
	"VoiceLedger/internal/repo"
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrKeyNotConfigured — у пользователя нет сохранённого API-ключа.
var ErrKeyNotConfigured = errors.New("api key not configured")

// KeyService управляет жизненным циклом пользовательского API-ключа:
// шифрование при приёме, чтение через кэш, проверка наличия.
type KeyService struct {
	repo   repo.UserKeyRepository
	cipher *crypto.Cipher
	cache  *KeyCache
	logger *zap.SugaredLogger
}

func NewKeyService(r repo.UserKeyRepository, cipher *crypto.Cipher, cache *KeyCache, logger *zap.SugaredLogger) *KeyService {
	return &KeyService{repo: r, cipher: cipher, cache: cache, logger: logger}
}

// Submit шифрует и сохраняет ключ. Кэш перезаписывается до похода в БД,
// чтобы последующие чтения в этом процессе сразу видели новый ключ.
func (s *KeyService) Submit(ctx context.Context, email, apiKey string) error {
	bundle, err := s.cipher.Encrypt(apiKey)
	if err != nil {
		return err
	}
	s.cache.Set(email, bundle)

	return s.repo.Upsert(ctx, &model.UserKey{
		Email:        email,
		EncryptedKey: bundle.Ciphertext,
		IV:           bundle.IV,
		Tag:          bundle.Tag,
	})
}

// Exists сообщает только факт наличия ключа, никогда его материал.
func (s *KeyService) Exists(ctx context.Context, email string) (bool, error) {
	if _, ok := s.cache.Get(email); ok {
		return true, nil
	}
	row, err := s.repo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	s.cache.Set(email, crypto.Bundle{Ciphertext: row.EncryptedKey, IV: row.IV, Tag: row.Tag})
	return true, nil
}

// Resolve возвращает расшифрованный ключ пользователя: кэш, при промахе — БД
// с заполнением кэша. Ошибка расшифровки — crypto.ErrCryptoFailure.
func (s *KeyService) Resolve(ctx context.Context, email string) (string, error) {
	bundle, ok := s.cache.Get(email)
	if !ok {
		row, err := s.repo.Get(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrKeyNotConfigured
			}
			return "", err
		}
		bundle = crypto.Bundle{Ciphertext: row.EncryptedKey, IV: row.IV, Tag: row.Tag}
		s.cache.Set(email, bundle)
		s.logger.Infow("loaded user key from store", "email", email)
	}
	return s.cipher.Decrypt(bundle)
}
