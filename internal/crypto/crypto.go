package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// keyLen — длина ключа AES-256 (в байтах).
const keyLen = 32

// ivLen — рекомендованная длина IV для GCM.
const ivLen = 12

// tagLen — длина тега аутентификации GCM.
const tagLen = 16

// ErrCryptoFailure возвращается при любой ошибке расшифровки: повреждённый
// ввод, несовпадение тега, чужой ключ. Вызывающий код обязан перехватить её
// и показать пользователю «ключ недоступен», а не отдавать сырую ошибку.
var ErrCryptoFailure = errors.New("crypto failure")

// Bundle — зашифрованный ключ в том виде, в котором он хранится:
// hex-кодированные шифртекст, IV и тег аутентификации.
type Bundle struct {
	Ciphertext string
	IV         string
	Tag        string
}

// Cipher шифрует/расшифровывает пользовательские API-ключи серверным
// операционным секретом. Ключ фиксированный, из конфигурации процесса;
// никакого вывода ключа из пользовательского ввода на сервере нет.
type Cipher struct {
	key []byte
}

// NewCipher создаёт Cipher из hex-представления 32-байтового ключа.
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	if len(key) != keyLen {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keyLen, len(key))
	}
	return &Cipher{key: key}, nil
}

// Encrypt шифрует plaintext AES-256-GCM со свежим случайным IV.
// IV генерируется заново на каждый вызов: повторное использование IV
// под одним ключом недопустимо.
func (c *Cipher) Encrypt(plaintext string) (Bundle, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return Bundle{}, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return Bundle{}, err
	}
	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Bundle{}, err
	}
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	// Seal возвращает шифртекст с тегом в хвосте; в хранимом виде они раздельны.
	ct, tag := sealed[:len(sealed)-tagLen], sealed[len(sealed)-tagLen:]
	return Bundle{
		Ciphertext: hex.EncodeToString(ct),
		IV:         hex.EncodeToString(iv),
		Tag:        hex.EncodeToString(tag),
	}, nil
}

// Decrypt расшифровывает Bundle и проверяет тег аутентификации.
// Любая ошибка (в том числе повреждённый hex) сворачивается в ErrCryptoFailure.
func (c *Cipher) Decrypt(b Bundle) (string, error) {
	ct, err := hex.DecodeString(b.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", ErrCryptoFailure)
	}
	iv, err := hex.DecodeString(b.IV)
	if err != nil {
		return "", fmt.Errorf("%w: bad iv encoding", ErrCryptoFailure)
	}
	tag, err := hex.DecodeString(b.Tag)
	if err != nil {
		return "", fmt.Errorf("%w: bad tag encoding", ErrCryptoFailure)
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(iv) != gcm.NonceSize() || len(tag) != tagLen {
		return "", fmt.Errorf("%w: bad iv or tag size", ErrCryptoFailure)
	}
	plain, err := gcm.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	return string(plain), nil
}
