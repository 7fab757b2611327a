package txcore

import (
	"bytes"
	"encoding/json"
	"strconv"

	"fattoken/address"
	"fattoken/errs"
)

// orderedKV is one key/value pair read off a JSON object in the order it
// appears in the source bytes.
type orderedKV struct {
	Key   string
	Value json.RawMessage
}

// parseOrderedObject walks a JSON object's keys in source order — the
// mirror image of encodeObject. Plain encoding/json.Unmarshal into a map
// would lose that order, and for inputs/outputs order is signature-slot
// assignment, not cosmetic.
func parseOrderedObject(raw json.RawMessage) ([]orderedKV, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, errs.Wrap(errs.InvalidAmount, "malformed JSON object", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errs.New(errs.InvalidAmount, "expected a JSON object")
	}
	var kvs []orderedKV
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errs.Wrap(errs.InvalidAmount, "malformed JSON object key", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errs.New(errs.InvalidAmount, "JSON object key is not a string")
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, errs.Wrap(errs.InvalidAmount, "malformed JSON object value", err)
		}
		kvs = append(kvs, orderedKV{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, errs.Wrap(errs.InvalidAmount, "malformed JSON object", err)
	}
	return kvs, nil
}

// ParseTransaction reconstructs a Transaction from its wire form: the
// chain ID, the ext-ids of its Entry, and the content bytes that were
// signed. It is the inverse of GetEntry/GetContent, used to round-trip a
// transaction that arrives over the wire rather than being built locally.
// parseAmount decodes one address's raw JSON amount value into A.
func ParseTransaction[A any](chainID string, extIDs [][]byte, content []byte, parseAmount func(json.RawMessage) (A, error)) (*Transaction[A], error) {
	if len(chainID) != 64 {
		return nil, errs.New(errs.InvalidChainId, "chain ID must be 64 hex characters")
	}
	if len(extIDs) < 1 || len(extIDs)%2 != 1 {
		return nil, errs.New(errs.MissingSignature, "ext-id list must be a timestamp followed by rcd/signature pairs")
	}
	timestamp, err := strconv.ParseInt(string(extIDs[0]), 10, 64)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidChainId, "ext-id 0 is not a valid ascii timestamp", err)
	}

	n := (len(extIDs) - 1) / 2
	rcds := make([][]byte, n)
	sigs := make([][]byte, n)
	for k := 0; k < n; k++ {
		rcds[k] = extIDs[1+2*k]
		sigs[k] = extIDs[2+2*k]
	}

	top, err := parseOrderedObject(content)
	if err != nil {
		return nil, err
	}
	var inputsRaw, outputsRaw, metadataRaw, tokenMetadataRaw json.RawMessage
	haveMetadata, haveTokenMetadata := false, false
	for _, kv := range top {
		switch kv.Key {
		case "inputs":
			inputsRaw = kv.Value
		case "outputs":
			outputsRaw = kv.Value
		case "metadata":
			metadataRaw = kv.Value
			haveMetadata = true
		case "tokenmetadata":
			tokenMetadataRaw = kv.Value
			haveTokenMetadata = true
		}
	}

	inputKVs, err := parseOrderedObject(inputsRaw)
	if err != nil {
		return nil, err
	}
	outputKVs, err := parseOrderedObject(outputsRaw)
	if err != nil {
		return nil, err
	}
	if len(inputKVs) != n {
		return nil, errs.New(errs.MissingSignature, "ext-id count does not match input count")
	}

	inputs := make([]Input[A], len(inputKVs))
	for i, kv := range inputKVs {
		amt, err := parseAmount(kv.Value)
		if err != nil {
			return nil, err
		}
		inputs[i] = Input[A]{Address: kv.Key, Amount: amt, Coinbase: kv.Key == address.CoinbasePublic}
	}
	outputs := make([]Output[A], len(outputKVs))
	for i, kv := range outputKVs {
		amt, err := parseAmount(kv.Value)
		if err != nil {
			return nil, err
		}
		outputs[i] = Output[A]{Address: kv.Key, Amount: amt, Burn: kv.Key == address.CoinbasePublic}
	}

	var tokenMetadata []TokenMetadataEntry[A]
	if haveTokenMetadata {
		var rawEntries []json.RawMessage
		if err := json.Unmarshal(tokenMetadataRaw, &rawEntries); err != nil {
			return nil, errs.Wrap(errs.InvalidAmount, "malformed token_metadata", err)
		}
		for _, re := range rawEntries {
			kvs, err := parseOrderedObject(re)
			if err != nil {
				return nil, err
			}
			var idsRaw, metaRaw json.RawMessage
			for _, kv := range kvs {
				switch kv.Key {
				case "ids":
					idsRaw = kv.Value
				case "metadata":
					metaRaw = kv.Value
				}
			}
			ids, err := parseAmount(idsRaw)
			if err != nil {
				return nil, err
			}
			tokenMetadata = append(tokenMetadata, TokenMetadataEntry[A]{IDs: ids, Metadata: metaRaw})
		}
	}

	tx := &Transaction[A]{
		chainID:       chainID,
		inputs:        inputs,
		outputs:       outputs,
		tokenMetadata: tokenMetadata,
		timestamp:     timestamp,
		content:       append([]byte{}, content...),
		rcds:          rcds,
		signatures:    sigs,
	}
	if haveMetadata {
		tx.metadata = metadataRaw
	}
	return tx, nil
}
