package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// DefaultKeystoreFile 默认 keystore 文件名
const DefaultKeystoreFile = "sui.keystore"

// KeystoreManager Keystore管理器
//
// keystore 文件是一个 JSON 字符串数组，每一项为 base64(flag || secret)，
// 与 sui 命令行工具的文件格式相同。
type KeystoreManager struct {
	path string
}

// NewKeystoreManager 创建Keystore管理器，path 为 keystore 文件路径
//
// 只读路径不触碰文件系统，目录在首次 Save 时创建。
func NewKeystoreManager(path string) (*KeystoreManager, error) {
	if path == "" {
		return nil, fmt.Errorf("keystore path is required")
	}
	return &KeystoreManager{path: path}, nil
}

// Path keystore 文件路径
func (km *KeystoreManager) Path() string {
	return km.path
}

// LoadAll 读取全部钱包；文件不存在时返回空列表
func (km *KeystoreManager) LoadAll() ([]Wallet, error) {
	// 1. 读取文件
	data, err := os.ReadFile(km.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read keystore file: %w", err)
	}

	// 2. 解析条目
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}

	// 3. 导入私钥
	wallets := make([]Wallet, 0, len(entries))
	for i, entry := range entries {
		w, err := FromBase64Secret(entry)
		if err != nil {
			return nil, fmt.Errorf("keystore entry %d: %w", i, err)
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// Load 按地址加载钱包
func (km *KeystoreManager) Load(address types.Address) (Wallet, error) {
	wallets, err := km.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, w := range wallets {
		if w.Address() == address {
			return w, nil
		}
	}
	return nil, fmt.Errorf("address %s not found in keystore %s", address, km.path)
}

// Save 追加钱包到 keystore，地址已存在时不重复写入
func (km *KeystoreManager) Save(w Wallet) error {
	wallets, err := km.LoadAll()
	if err != nil {
		return err
	}

	entries := make([]string, 0, len(wallets)+1)
	for _, existing := range wallets {
		if existing.Address() == w.Address() {
			return nil
		}
		entries = append(entries, existing.ExportSecret())
	}
	entries = append(entries, w.ExportSecret())

	if err := os.MkdirAll(filepath.Dir(km.path), 0700); err != nil {
		return fmt.Errorf("create keystore dir: %w", err)
	}
	file, err := os.OpenFile(km.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create keystore file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("encode keystore: %w", err)
	}
	return nil
}
